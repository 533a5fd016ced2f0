package services

import (
	"time"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/utils"
)

// Thresholds that put coffee at risk.
const (
	FrostMinTemp     = 3.0  // °C
	HeatMaxTemp      = 34.0 // °C
	HeavyRainMM      = 40.0 // mm/day
	StrongWindKMH    = 50.0 // km/h
	AlertFrost       = "geada"
	AlertHeat        = "calor"
	AlertHeavyRain   = "chuva_forte"
	AlertStrongWinds = "vento_forte"
)

// EvaluateWeatherAlerts flags every forecast day that crosses a threshold.
// One day can raise several alerts.
func EvaluateWeatherAlerts(days []models.WeatherDay) []models.WeatherAlert {
	var alerts []models.WeatherAlert
	for _, d := range days {
		date := d.Date.Format(time.DateOnly)
		if d.MinTemp <= FrostMinTemp {
			alerts = append(alerts, models.WeatherAlert{
				Type: AlertFrost, Date: date,
				Message: "Risco de geada: mínima de " + utils.FormatNumberBR(d.MinTemp, 1) + " °C",
			})
		}
		if d.MaxTemp >= HeatMaxTemp {
			alerts = append(alerts, models.WeatherAlert{
				Type: AlertHeat, Date: date,
				Message: "Calor intenso: máxima de " + utils.FormatNumberBR(d.MaxTemp, 1) + " °C",
			})
		}
		if d.Precipitation >= HeavyRainMM {
			alerts = append(alerts, models.WeatherAlert{
				Type: AlertHeavyRain, Date: date,
				Message: "Chuva forte: " + utils.FormatNumberBR(d.Precipitation, 1) + " mm previstos",
			})
		}
		if d.MaxWind >= StrongWindKMH {
			alerts = append(alerts, models.WeatherAlert{
				Type: AlertStrongWinds, Date: date,
				Message: "Ventos fortes: rajadas de " + utils.FormatNumberBR(d.MaxWind, 0) + " km/h",
			})
		}
	}
	return alerts
}
