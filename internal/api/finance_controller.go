package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

type FinanceController struct {
	financeService *services.FinanceService
}

func NewFinanceController(financeService *services.FinanceService) *FinanceController {
	return &FinanceController{financeService: financeService}
}

// GetBalance GET /api/v1/financeiro/saldo?periodo=mes-atual&inicio=2025-01-01&fim=2025-01-31
func (fc *FinanceController) GetBalance(c *gin.Context) {
	kind := services.PeriodKind(c.DefaultQuery("periodo", string(services.PeriodCurrentMonth)))

	start, err := parseDateQuery(c, "inicio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data inicial inválida", "details": err.Error()})
		return
	}
	end, err := parseDateQuery(c, "fim")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data final inválida", "details": err.Error()})
		return
	}

	balance, err := fc.financeService.PeriodBalance(c.Request.Context(), CurrentUserID(c), kind, start, end)
	if err != nil {
		respondError(c, "Erro ao calcular saldo", err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// GetCosts compares spending with the CONAB benchmark.
// GET /api/v1/financeiro/custos?area=12.5&produtividade=32
func (fc *FinanceController) GetCosts(c *gin.Context) {
	area, err := strconv.ParseFloat(c.DefaultQuery("area", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Área inválida", "details": err.Error()})
		return
	}
	productivity, err := strconv.ParseFloat(c.DefaultQuery("produtividade",
		strconv.FormatFloat(models.ConabReferenceProductivity, 'f', -1, 64)), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Produtividade inválida", "details": err.Error()})
		return
	}

	cmp, err := fc.financeService.CostComparison(c.Request.Context(), CurrentUserID(c), area, productivity)
	if err != nil {
		respondError(c, "Erro ao comparar custos", err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
