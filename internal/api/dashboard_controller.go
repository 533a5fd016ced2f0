package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

type DashboardController struct {
	dashboardService *services.DashboardService
}

func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetSummary GET /api/v1/painel
func (dc *DashboardController) GetSummary(c *gin.Context) {
	summary, err := dc.dashboardService.Summary(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, "Erro ao carregar painel", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
