package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

type WeatherRepository interface {
	UpsertDays(ctx context.Context, days []models.WeatherDay) error
	ListFrom(ctx context.Context, latitude, longitude float64, from time.Time) ([]models.WeatherDay, error)
}

type weatherRepo struct{ db *gorm.DB }

func NewWeatherRepository(db *gorm.DB) WeatherRepository {
	return &weatherRepo{db: db}
}

// UpsertDays refreshes forecasts already stored for the same place and date.
func (r *weatherRepo) UpsertDays(ctx context.Context, days []models.WeatherDay) error {
	if len(days) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "latitude"}, {Name: "longitude"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"temp_max", "temp_min", "precipitacao_mm", "vento_max_kmh", "timezone", "source", "updated_at",
		}),
	}).Create(&days).Error
	if err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}
	return nil
}

func (r *weatherRepo) ListFrom(ctx context.Context, latitude, longitude float64, from time.Time) ([]models.WeatherDay, error) {
	var days []models.WeatherDay
	err := r.db.WithContext(ctx).
		Where("latitude = ? AND longitude = ? AND date >= ?", latitude, longitude, from.Format(time.DateOnly)).
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, fmt.Errorf("list forecast: %w", err)
	}
	return days, nil
}
