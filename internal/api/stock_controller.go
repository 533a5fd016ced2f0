package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

// StockController serves the estoque views and stock writes.
type StockController struct {
	stockService *services.StockService
}

func NewStockController(stockService *services.StockService) *StockController {
	return &StockController{stockService: stockService}
}

// ListGroups returns the user's stock grouped by product.
// GET /api/v1/estoque/grupos
func (sc *StockController) ListGroups(c *gin.Context) {
	groups, err := sc.stockService.ListProductGroups(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, "Erro ao carregar estoque", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"grupos": groups,
		"count":  len(groups),
	})
}

// ExportGroups downloads the grouped stock as a spreadsheet.
// GET /api/v1/estoque/grupos/export
func (sc *StockController) ExportGroups(c *gin.Context) {
	groups, err := sc.stockService.ListProductGroups(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, "Erro ao carregar estoque", err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"estoque_%s.xlsx\"",
		time.Now().Format("20060102")))
	if err := services.ExportProductGroupsXLSX(c.Writer, groups); err != nil {
		respondError(c, "Erro ao exportar estoque", err)
	}
}

// RegisterEntry POST /api/v1/estoque/entradas
func (sc *StockController) RegisterEntry(c *gin.Context) {
	sc.registerMovement(c, sc.stockService.RegisterProductEntry)
}

// RegisterExit POST /api/v1/estoque/saidas
func (sc *StockController) RegisterExit(c *gin.Context) {
	sc.registerMovement(c, sc.stockService.RegisterProductExit)
}

func (sc *StockController) registerMovement(c *gin.Context,
	register func(ctx context.Context, userID string, req models.ProductMovementRequest) error) {
	var req models.ProductMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parâmetros inválidos",
			"details": err.Error(),
		})
		return
	}
	if err := register(c.Request.Context(), CurrentUserID(c), req); err != nil {
		respondError(c, "Erro ao registrar movimentação", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// CorrectDeficit credits stock to a product in deficit.
// POST /api/v1/estoque/ajustes
func (sc *StockController) CorrectDeficit(c *gin.Context) {
	var request struct {
		RowID     int64   `json:"row_id" binding:"required"`
		Quantity  float64 `json:"quantidade" binding:"required"`
		UnitPrice float64 `json:"valor_unitario"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parâmetros inválidos",
			"details": err.Error(),
		})
		return
	}

	correction, err := sc.stockService.CorrectDeficit(c.Request.Context(), CurrentUserID(c),
		request.RowID, request.Quantity, request.UnitPrice)
	if err != nil {
		respondError(c, "Erro ao corrigir estoque", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ajuste": correction})
}

// RemoveFIFO POST /api/v1/estoque/remocoes
func (sc *StockController) RemoveFIFO(c *gin.Context) {
	var request struct {
		RowID    int64   `json:"row_id" binding:"required"`
		Quantity float64 `json:"quantidade" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parâmetros inválidos",
			"details": err.Error(),
		})
		return
	}

	removal, err := sc.stockService.RemoveQuantityFIFO(c.Request.Context(), CurrentUserID(c), request.RowID, request.Quantity)
	if err != nil {
		respondError(c, "Erro ao remover quantidade", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"remocao": removal})
}

// ShortageAlerts GET /api/v1/estoque/alertas
func (sc *StockController) ShortageAlerts(c *gin.Context) {
	alerts, err := sc.stockService.ShortageAlerts(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, "Erro ao verificar faltas", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alertas": alerts,
		"count":   len(alerts),
	})
}
