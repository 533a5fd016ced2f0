package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

func ureiaDeficitGroup(t *testing.T) ProductGroup {
	t.Helper()
	groups := AggregateStock([]models.StockLedgerRow{
		entry(10, "Ureia", 50, "kg", 0, withPrice(2.5), withProductID("prod-ureia")),
		exit(11, "Ureia", 80, "kg", 1),
	}, nil)
	require.Len(t, groups, 1)
	require.Equal(t, -30.0, groups[0].NetQuantity)
	return groups[0]
}

func TestPlanDeficitCorrectionScenario(t *testing.T) {
	g := ureiaDeficitGroup(t)

	plan, err := PlanDeficitCorrection(g, 40, 3)
	require.NoError(t, err)

	assert.Equal(t, "prod-ureia", plan.ProductID)
	assert.Equal(t, 30.0, plan.DeficitClosed)
	assert.Equal(t, 10.0, plan.Remainder)
	assert.Equal(t, 10.0, plan.NetAfter)
	assert.Equal(t, 3.0, plan.UnitPrice)
	assert.Equal(t, Quantity{Value: 4e7, Unit: UnitMilligram}, plan.Standard)

	h := plan.HistoryRecord("user-1")
	assert.Equal(t, models.MovementEntry, h.Kind)
	assert.Equal(t, models.OriginManualAdjustment, h.Origin)
	assert.Equal(t, 4e7, h.Quantity)
	assert.Equal(t, UnitMilligram, h.Unit)
	assert.Equal(t, 3.0, h.UnitPrice)
	assert.Equal(t, "kg", h.OriginalValueUnit)
	assert.Equal(t, "user-1", h.UserID)
	assert.Equal(t, "ajuste de estoque: 40,00 kg a R$ 3,00/kg (déficit coberto 30,00)", h.Notes)
}

func TestPlanDeficitCorrectionSmallerThanDeficit(t *testing.T) {
	plan, err := PlanDeficitCorrection(ureiaDeficitGroup(t), 12, 3)
	require.NoError(t, err)
	assert.Equal(t, 12.0, plan.DeficitClosed)
	assert.Equal(t, 0.0, plan.Remainder)
	assert.Equal(t, -18.0, plan.NetAfter)
}

func TestPlanDeficitCorrectionWithoutDeficit(t *testing.T) {
	g := AggregateStock([]models.StockLedgerRow{entry(7, "Gesso", 10, "kg", 0)}, nil)[0]
	plan, err := PlanDeficitCorrection(g, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, plan.DeficitClosed)
	assert.Equal(t, 5.0, plan.Remainder)
	assert.Equal(t, "7", plan.ProductID, "legacy rows fall back to the oldest entry id")
}

func TestPlanDeficitCorrectionRejectsBadInput(t *testing.T) {
	g := ureiaDeficitGroup(t)
	for _, q := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := PlanDeficitCorrection(g, q, 3)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	_, err := PlanDeficitCorrection(g, 1, -3)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = PlanDeficitCorrection(ProductGroup{Name: "vazio"}, 1, 1)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestPlanFIFORemoval(t *testing.T) {
	g := AggregateStock([]models.StockLedgerRow{
		entry(1, "Ureia", 10, "kg", 0, withPrice(2), withBrand("Yara")),
		entry(2, "Ureia", 20, "kg", 1, withPrice(5)),
	}, nil)[0]

	removal, err := PlanFIFORemoval(g, 6)
	require.NoError(t, err)
	assert.Equal(t, 24.0, removal.TotalValue)
	assert.Equal(t, "kg", removal.Unit)

	req := removal.Request("user-1")
	assert.Equal(t, "Ureia", req.Name)
	assert.Equal(t, "Yara", req.Brand)
	assert.Equal(t, "kg", req.BaseUnit)
	assert.Equal(t, 6.0, req.Quantity)
	assert.Equal(t, "user-1", req.UserID)

	_, err = PlanFIFORemoval(g, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestShortageAlerts(t *testing.T) {
	groups := AggregateStock([]models.StockLedgerRow{
		entry(1, "Ureia", 50, "kg", 0),
		exit(2, "Ureia", 80, "kg", 1),
		entry(3, "Gesso", 10, "kg", 0),
	}, []models.ConsumptionRecord{
		{LotID: 2, ActivityID: "adubacao-talhao-3", ActivityAt: baseTime.AddDate(0, 0, 1)},
	})

	alerts := ShortageAlerts(groups)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.ShortageAlert{ProductName: "Ureia", Quantity: 30, Unit: "kg", ActivityID: "adubacao-talhao-3"}, alerts[0])
}
