package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

type WeatherController struct {
	weatherService *services.WeatherService
}

func NewWeatherController(weatherService *services.WeatherService) *WeatherController {
	return &WeatherController{weatherService: weatherService}
}

// GetForecast GET /api/v1/clima/previsao
func (wc *WeatherController) GetForecast(c *gin.Context) {
	days := wc.weatherService.Forecast(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"dias":  days,
		"count": len(days),
	})
}

// GetAlerts GET /api/v1/clima/alertas
func (wc *WeatherController) GetAlerts(c *gin.Context) {
	alerts := wc.weatherService.Alerts(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"alertas": alerts,
		"count":   len(alerts),
	})
}
