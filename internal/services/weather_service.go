package services

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/repository"
)

// EventWeatherAlerts is pushed to every dashboard after a forecast refresh.
const EventWeatherAlerts = "alertas_clima"

const (
	forecastDays        = 7
	weatherRefreshLock  = "lock:clima:refresh"
	weatherRefreshLease = 2 * time.Minute
)

// ForecastSource is satisfied by WeatherClient.
type ForecastSource interface {
	GetDailyForecast(ctx context.Context, days int) ([]models.WeatherDay, error)
	Location() (latitude, longitude float64)
}

// WeatherService serves the farm forecast. When the provider is down it falls
// back to the last stored forecast, then to nothing.
type WeatherService struct {
	source ForecastSource
	repo   repository.WeatherRepository
	now    func() time.Time
}

// NewWeatherService wires the service. repo may be nil when no database is configured.
func NewWeatherService(source ForecastSource, repo repository.WeatherRepository, now func() time.Time) *WeatherService {
	if now == nil {
		now = time.Now
	}
	return &WeatherService{source: source, repo: repo, now: now}
}

// Forecast returns the next days of forecast.
func (s *WeatherService) Forecast(ctx context.Context) []models.WeatherDay {
	days, err := s.source.GetDailyForecast(ctx, forecastDays)
	if err == nil {
		if s.repo != nil {
			if err := s.repo.UpsertDays(ctx, days); err != nil {
				log.Warn().Err(err).Msg("failed to store forecast")
			}
		}
		return days
	}
	log.Error().Err(err).Msg("weather provider unavailable")

	if s.repo == nil {
		return []models.WeatherDay{}
	}
	lat, lon := s.source.Location()
	stored, err := s.repo.ListFrom(ctx, lat, lon, civilDay(s.now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to read stored forecast")
		return []models.WeatherDay{}
	}
	return stored
}

// Alerts evaluates the current forecast.
func (s *WeatherService) Alerts(ctx context.Context) []models.WeatherAlert {
	alerts := EvaluateWeatherAlerts(s.Forecast(ctx))
	if alerts == nil {
		return []models.WeatherAlert{}
	}
	return alerts
}

// WeatherRefresher periodically refreshes the forecast and broadcasts alerts.
// With a locker, only one replica refreshes per tick.
type WeatherRefresher struct {
	service   *WeatherService
	locker    *redislock.Client
	publisher Publisher
	interval  time.Duration
}

func NewWeatherRefresher(service *WeatherService, locker *redislock.Client, publisher Publisher, interval time.Duration) *WeatherRefresher {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &WeatherRefresher{service: service, locker: locker, publisher: publisher, interval: interval}
}

// Run blocks until ctx is cancelled.
func (r *WeatherRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("weather refresher stopped")
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh runs one cycle. It reports whether this replica did the work.
func (r *WeatherRefresher) Refresh(ctx context.Context) bool {
	if r.locker != nil {
		lock, err := r.locker.Obtain(ctx, weatherRefreshLock, weatherRefreshLease, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			log.Debug().Msg("weather refresh running elsewhere")
			return false
		}
		if err != nil {
			log.Warn().Err(err).Msg("weather refresh lock unavailable")
			return false
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				log.Warn().Err(err).Msg("failed to release weather lock")
			}
		}()
	}

	alerts := r.service.Alerts(ctx)
	if len(alerts) > 0 {
		r.publisher.Publish("", EventWeatherAlerts, alerts)
	}
	log.Info().Int("alerts", len(alerts)).Msg("weather forecast refreshed")
	return true
}
