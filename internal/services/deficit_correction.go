package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/utils"
)

// DeficitCorrection is the planned effect of crediting stock to a group.
// All quantities are in the group's reference unit.
type DeficitCorrection struct {
	ProductID     string   `json:"produto_id"`
	ProductName   string   `json:"nome"`
	Unit          string   `json:"unidade"`
	Quantity      float64  `json:"quantidade"`
	UnitPrice     float64  `json:"valor_unitario"`
	DeficitClosed float64  `json:"deficit_coberto"`
	Remainder     float64  `json:"saldo_creditado"`
	NetBefore     float64  `json:"quantidade_anterior"`
	NetAfter      float64  `json:"quantidade_final"`
	Standard      Quantity `json:"quantidade_padrao"`
}

// PlanDeficitCorrection computes how a corrective entry of quantity at
// unitPrice applies to g: the outstanding deficit is closed first and the
// rest becomes available stock at the same price.
func PlanDeficitCorrection(g ProductGroup, quantity, unitPrice float64) (DeficitCorrection, error) {
	if !validAmount(quantity) || quantity <= 0 {
		return DeficitCorrection{}, ErrInvalidQuantity
	}
	if !validAmount(unitPrice) || unitPrice < 0 {
		return DeficitCorrection{}, ErrInvalidPrice
	}

	productID, err := groupProductID(g)
	if err != nil {
		return DeficitCorrection{}, err
	}

	deficit := math.Max(0, -g.NetQuantity)
	closed := math.Min(quantity, deficit)
	return DeficitCorrection{
		ProductID:     productID,
		ProductName:   g.Name,
		Unit:          g.ReferenceUnit,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		DeficitClosed: closed,
		Remainder:     quantity - closed,
		NetBefore:     g.NetQuantity,
		NetAfter:      g.NetQuantity + quantity,
		Standard:      ToStandardUnit(quantity, g.ReferenceUnit),
	}, nil
}

// HistoryRecord is the audit entry for a correction: quantity in the standard
// unit, price kept per the original unit of value.
func (c DeficitCorrection) HistoryRecord(userID string) models.MovementHistory {
	return models.MovementHistory{
		UserID:            userID,
		ProductID:         c.ProductID,
		ProductName:       c.ProductName,
		Kind:              models.MovementEntry,
		Origin:            models.OriginManualAdjustment,
		Quantity:          c.Standard.Value,
		Unit:              c.Standard.Unit,
		UnitPrice:         c.UnitPrice,
		OriginalValueUnit: c.Unit,
		Notes: fmt.Sprintf("ajuste de estoque: %s %s a %s/%s (déficit coberto %s)",
			utils.FormatNumberBR(c.Quantity, 2), c.Unit,
			utils.FormatBRL(decimal.NewFromFloat(c.UnitPrice)), c.Unit,
			utils.FormatNumberBR(c.DeficitClosed, 2)),
	}
}

// FIFORemoval is one logical exit for a group. The stored procedure decides
// which lots it drains, oldest first.
type FIFORemoval struct {
	ProductName string  `json:"nome"`
	Brand       string  `json:"marca"`
	Category    string  `json:"categoria"`
	Unit        string  `json:"unidade"`
	Quantity    float64 `json:"quantidade"`
	TotalValue  float64 `json:"valor_total"`
}

// PlanFIFORemoval prices a removal of quantity (reference unit) at the
// group's weighted-average cost.
func PlanFIFORemoval(g ProductGroup, quantity float64) (FIFORemoval, error) {
	if !validAmount(quantity) || quantity <= 0 {
		return FIFORemoval{}, ErrInvalidQuantity
	}
	r := FIFORemoval{
		ProductName: g.Name,
		Unit:        g.ReferenceUnit,
		Quantity:    quantity,
		TotalValue:  quantity * g.AverageCost,
	}
	if len(g.Brands) > 0 {
		r.Brand = g.Brands[0]
	}
	if len(g.Categories) > 0 {
		r.Category = g.Categories[0]
	}
	return r, nil
}

// Request converts the removal into the exit procedure's parameters.
func (r FIFORemoval) Request(userID string) models.ProductMovementRequest {
	return models.ProductMovementRequest{
		UserID:     userID,
		Name:       r.ProductName,
		Brand:      r.Brand,
		Category:   r.Category,
		BaseUnit:   r.Unit,
		Quantity:   r.Quantity,
		TotalValue: r.TotalValue,
	}
}

// groupProductID is the logical product id shared by the group's rows, or the
// oldest entry's row id for legacy rows that never got one.
func groupProductID(g ProductGroup) (string, error) {
	for _, rows := range [][]models.StockLedgerRow{g.Entries, g.Exits} {
		for _, r := range rows {
			if r.ProductID != nil && *r.ProductID != "" {
				return *r.ProductID, nil
			}
		}
	}
	if len(g.Entries) > 0 {
		return strconv.FormatInt(g.Entries[0].ID, 10), nil
	}
	if len(g.Exits) > 0 {
		return strconv.FormatInt(g.Exits[0].ID, 10), nil
	}
	return "", ErrGroupNotFound
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ShortageAlerts lists one alert per group in deficit, naming the most
// recent activity that consumed the product.
func ShortageAlerts(groups []ProductGroup) []models.ShortageAlert {
	var alerts []models.ShortageAlert
	for _, g := range groups {
		if !g.IsDeficit() {
			continue
		}
		alert := models.ShortageAlert{
			ProductName: g.Name,
			Quantity:    -g.NetQuantity,
			Unit:        g.ReferenceUnit,
		}
		if n := len(g.Consumption); n > 0 {
			alert.ActivityID = g.Consumption[n-1].ActivityID
		}
		alerts = append(alerts, alert)
	}
	return alerts
}
