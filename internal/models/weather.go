package models

import (
	"time"
)

// WeatherDay is one forecast day for the farm location (previsoes_clima).
// The table has no deleted_at column, so no gorm.DeletedAt here.
type WeatherDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date      time.Time `gorm:"type:date;uniqueIndex:idx_previsao_local_data;not null" json:"data"`
	Latitude  float64   `gorm:"type:decimal(10,6);uniqueIndex:idx_previsao_local_data;not null" json:"latitude"`
	Longitude float64   `gorm:"type:decimal(10,6);uniqueIndex:idx_previsao_local_data;not null" json:"longitude"`
	Timezone  string    `gorm:"type:varchar(50);not null;default:'America/Sao_Paulo'" json:"timezone"`

	MaxTemp       float64 `gorm:"type:decimal(5,2);column:temp_max" json:"temp_max"`
	MinTemp       float64 `gorm:"type:decimal(5,2);column:temp_min" json:"temp_min"`
	Precipitation float64 `gorm:"type:decimal(6,2);column:precipitacao_mm" json:"precipitacao_mm"`
	MaxWind       float64 `gorm:"type:decimal(6,2);column:vento_max_kmh" json:"vento_max_kmh"`

	Source string `gorm:"type:varchar(50);not null;default:'open-meteo'" json:"source"`
}

// TableName maps the model to its table.
func (WeatherDay) TableName() string {
	return "previsoes_clima"
}

// AutoMigrate creates the tables this service owns. Ledger, transaction and
// notification tables belong to the Supabase schema and are not touched.
func AutoMigrate(db interface{ AutoMigrate(...interface{}) error }) error {
	return db.AutoMigrate(&WeatherDay{})
}
