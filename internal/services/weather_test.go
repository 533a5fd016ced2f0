package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

const openMeteoFixture = `{
  "timezone": "America/Sao_Paulo",
  "daily": {
    "time": ["2025-06-20", "2025-06-21", "bad-date"],
    "temperature_2m_max": [22.4, 35.1, 20],
    "temperature_2m_min": [2.5, 18, 10],
    "precipitation_sum": [0, 52.3, null],
    "wind_speed_10m_max": [12, 61, 5]
  }
}`

func TestWeatherClientParsesDailyForecast(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openMeteoFixture))
	}))
	defer srv.Close()

	client := NewWeatherClient(-21.5556, -45.4364, "").WithBaseURL(srv.URL)
	days, err := client.GetDailyForecast(context.Background(), 30)
	require.NoError(t, err)

	assert.Contains(t, query, "forecast_days=16")
	assert.Contains(t, query, "latitude=-21.5556")
	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-20", days[0].Date.Format(time.DateOnly))
	assert.Equal(t, 2.5, days[0].MinTemp)
	assert.Equal(t, 52.3, days[1].Precipitation)
	assert.Equal(t, "America/Sao_Paulo", days[1].Timezone)
}

func TestWeatherClientReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewWeatherClient(0, 0, "UTC").WithBaseURL(srv.URL).GetDailyForecast(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEvaluateWeatherAlerts(t *testing.T) {
	day := func(date string, min, max, rain, wind float64) models.WeatherDay {
		d, _ := time.Parse(time.DateOnly, date)
		return models.WeatherDay{Date: d, MinTemp: min, MaxTemp: max, Precipitation: rain, MaxWind: wind}
	}

	alerts := EvaluateWeatherAlerts([]models.WeatherDay{
		day("2025-06-20", 3, 22, 0, 10),
		day("2025-06-21", 18, 34, 40, 50),
		day("2025-06-22", 3.1, 33.9, 39.9, 49.9),
	})

	require.Len(t, alerts, 4)
	assert.Equal(t, AlertFrost, alerts[0].Type)
	assert.Equal(t, "Risco de geada: mínima de 3,0 °C", alerts[0].Message)
	assert.Equal(t, "2025-06-20", alerts[0].Date)
	assert.Equal(t, []string{AlertHeat, AlertHeavyRain, AlertStrongWinds},
		[]string{alerts[1].Type, alerts[2].Type, alerts[3].Type})
	assert.Equal(t, "Ventos fortes: rajadas de 50 km/h", alerts[3].Message)

	assert.Nil(t, EvaluateWeatherAlerts(nil))
}

type stubForecast struct {
	days []models.WeatherDay
	err  error
}

func (s stubForecast) GetDailyForecast(context.Context, int) ([]models.WeatherDay, error) {
	return s.days, s.err
}

func (stubForecast) Location() (float64, float64) { return -21.5, -45.4 }

type stubWeatherRepo struct {
	stored    []models.WeatherDay
	upserted  int
	listErr   error
	listedFor time.Time
}

func (r *stubWeatherRepo) UpsertDays(_ context.Context, days []models.WeatherDay) error {
	r.upserted += len(days)
	return nil
}

func (r *stubWeatherRepo) ListFrom(_ context.Context, _, _ float64, from time.Time) ([]models.WeatherDay, error) {
	r.listedFor = from
	return r.stored, r.listErr
}

func TestWeatherServiceStoresFreshForecast(t *testing.T) {
	repo := &stubWeatherRepo{}
	fresh := []models.WeatherDay{{MinTemp: 1}, {MinTemp: 12}}
	svc := NewWeatherService(stubForecast{days: fresh}, repo, fixedNow)

	alerts := svc.Alerts(context.Background())
	assert.Equal(t, 2, repo.upserted)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertFrost, alerts[0].Type)
}

func TestWeatherServiceFallsBackToStoredForecast(t *testing.T) {
	repo := &stubWeatherRepo{stored: []models.WeatherDay{{MaxTemp: 36}}}
	svc := NewWeatherService(stubForecast{err: errors.New("timeout")}, repo, fixedNow)

	days := svc.Forecast(context.Background())
	require.Len(t, days, 1)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), repo.listedFor)

	repo.listErr = errors.New("db down")
	assert.Empty(t, svc.Forecast(context.Background()))

	noDB := NewWeatherService(stubForecast{err: errors.New("timeout")}, nil, fixedNow)
	assert.NotNil(t, noDB.Alerts(context.Background()))
	assert.Empty(t, noDB.Alerts(context.Background()))
}

func TestWeatherRefresherBroadcastsAlerts(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewWeatherService(stubForecast{days: []models.WeatherDay{{MaxWind: 80}}}, nil, fixedNow)

	ok := NewWeatherRefresher(svc, nil, pub, 0).Refresh(context.Background())
	assert.True(t, ok)
	assert.Equal(t, []string{":" + EventWeatherAlerts}, pub.events)

	quiet := &recordingPublisher{}
	calm := NewWeatherService(stubForecast{days: []models.WeatherDay{{MinTemp: 15, MaxTemp: 25}}}, nil, fixedNow)
	NewWeatherRefresher(calm, nil, quiet, time.Minute).Refresh(context.Background())
	assert.Empty(t, quiet.events)
}
