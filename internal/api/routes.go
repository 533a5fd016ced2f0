package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router serves. Nil controllers leave
// their routes unregistered.
type Handlers struct {
	Stock         *StockController
	Finance       *FinanceController
	Weather       *WeatherController
	Notifications *NotificationController
	Dashboard     *DashboardController
	Hub           *Hub
}

// RegisterRoutes mounts the dashboard API on r.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Painel Zé da Safra",
		})
	})

	apiGroup := r.Group("/api/v1", RequireUserID())

	if h.Stock != nil {
		estoque := apiGroup.Group("/estoque")
		{
			estoque.GET("/grupos", h.Stock.ListGroups)
			estoque.GET("/grupos/export", h.Stock.ExportGroups)
			estoque.POST("/entradas", h.Stock.RegisterEntry)
			estoque.POST("/saidas", h.Stock.RegisterExit)
			estoque.POST("/ajustes", h.Stock.CorrectDeficit)
			estoque.POST("/remocoes", h.Stock.RemoveFIFO)
			estoque.GET("/alertas", h.Stock.ShortageAlerts)
		}
	}
	if h.Finance != nil {
		financeiro := apiGroup.Group("/financeiro")
		{
			financeiro.GET("/saldo", h.Finance.GetBalance)
			financeiro.GET("/custos", h.Finance.GetCosts)
		}
	}
	if h.Weather != nil {
		clima := apiGroup.Group("/clima")
		{
			clima.GET("/previsao", h.Weather.GetForecast)
			clima.GET("/alertas", h.Weather.GetAlerts)
		}
	}
	if h.Notifications != nil {
		apiGroup.GET("/notificacoes", h.Notifications.List)
		apiGroup.POST("/notificacoes/:id/lida", h.Notifications.MarkRead)
	}
	if h.Dashboard != nil {
		apiGroup.GET("/painel", h.Dashboard.GetSummary)
	}
	if h.Hub != nil {
		r.GET("/ws", RequireUserID(), h.Hub.ServeWS)
	}
}
