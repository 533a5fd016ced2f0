package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

const openMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"

// WeatherClient fetches daily forecasts for the farm from Open-Meteo.
type WeatherClient struct {
	baseURL   string
	client    *http.Client
	latitude  float64
	longitude float64
	timezone  string
}

func NewWeatherClient(latitude, longitude float64, timezone string) *WeatherClient {
	if timezone == "" {
		timezone = "America/Sao_Paulo"
	}
	log.Info().
		Float64("lat", latitude).
		Float64("lon", longitude).
		Str("tz", timezone).
		Msg("weather client configured")

	return &WeatherClient{
		baseURL:   openMeteoForecastURL,
		latitude:  latitude,
		longitude: longitude,
		timezone:  timezone,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the client at another Open-Meteo compatible endpoint.
func (wc *WeatherClient) WithBaseURL(baseURL string) *WeatherClient {
	wc.baseURL = baseURL
	return wc
}

// Location returns the coordinates forecasts are fetched for.
func (wc *WeatherClient) Location() (latitude, longitude float64) {
	return wc.latitude, wc.longitude
}

// dailyForecastResponse is the subset of the Open-Meteo payload we read.
type dailyForecastResponse struct {
	Timezone string `json:"timezone"`
	Daily    struct {
		Time             []string   `json:"time"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		TemperatureMin   []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// GetDailyForecast returns up to 16 days of forecast starting today.
func (wc *WeatherClient) GetDailyForecast(ctx context.Context, days int) ([]models.WeatherDay, error) {
	if days > 16 {
		days = 16
	}
	if days < 1 {
		days = 7
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(wc.latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(wc.longitude, 'f', 4, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max")
	q.Set("timezone", wc.timezone)
	q.Set("forecast_days", strconv.Itoa(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wc.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := wc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather forecast: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error (status %d): %s", resp.StatusCode, string(body))
	}

	var forecast dailyForecastResponse
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return wc.toWeatherDays(forecast), nil
}

func (wc *WeatherClient) toWeatherDays(f dailyForecastResponse) []models.WeatherDay {
	at := func(values []*float64, i int) float64 {
		if i < len(values) && values[i] != nil {
			return *values[i]
		}
		return 0
	}

	out := make([]models.WeatherDay, 0, len(f.Daily.Time))
	for i, raw := range f.Daily.Time {
		date, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			log.Warn().Str("date", raw).Err(err).Msg("skipping forecast day with unparseable date")
			continue
		}
		out = append(out, models.WeatherDay{
			Date:          date,
			Latitude:      wc.latitude,
			Longitude:     wc.longitude,
			Timezone:      wc.timezone,
			MaxTemp:       at(f.Daily.TemperatureMax, i),
			MinTemp:       at(f.Daily.TemperatureMin, i),
			Precipitation: at(f.Daily.PrecipitationSum, i),
			MaxWind:       at(f.Daily.WindSpeedMax, i),
			Source:        "open-meteo",
		})
	}
	return out
}
