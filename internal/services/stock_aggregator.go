package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

// SupplierBreakdown sums the entries bought from one supplier at one price.
type SupplierBreakdown struct {
	Supplier  string  `json:"fornecedor"`
	UnitPrice float64 `json:"valor_unitario"`
	Quantity  float64 `json:"quantidade"`
	RowIDs    []int64 `json:"ids"`
}

// ProductGroup is the derived view of every ledger row that names the same
// product. Quantities and prices are expressed in ReferenceUnit.
type ProductGroup struct {
	Name          string                     `json:"nome"`
	Entries       []models.StockLedgerRow    `json:"entradas"`
	Exits         []models.StockLedgerRow    `json:"saidas"`
	ReferenceUnit string                     `json:"unidade_valor_original"`
	TotalEntries  float64                    `json:"total_entradas"`
	TotalExits    float64                    `json:"total_saidas"`
	NetQuantity   float64                    `json:"quantidade_liquida"`
	AverageCost   float64                    `json:"valor_medio"`
	TotalValue    float64                    `json:"valor_total"`
	Display       Quantity                   `json:"exibicao"`
	Brands        []string                   `json:"marcas"`
	Categories    []string                   `json:"categorias"`
	Units         []string                   `json:"unidades"`
	Batches       []string                   `json:"lotes"`
	Expiries      []time.Time                `json:"validades"`
	Suppliers     []SupplierBreakdown        `json:"fornecedores"`
	Consumption   []models.ConsumptionRecord `json:"consumos"`
}

// IsDeficit reports stock used before it was logged.
func (g ProductGroup) IsDeficit() bool {
	return g.NetQuantity < 0
}

// RowIDs returns every ledger row id in the group, entries first.
func (g ProductGroup) RowIDs() []int64 {
	ids := make([]int64, 0, len(g.Entries)+len(g.Exits))
	for _, r := range g.Entries {
		ids = append(ids, r.ID)
	}
	for _, r := range g.Exits {
		ids = append(ids, r.ID)
	}
	return ids
}

// Contains reports whether rowID belongs to the group.
func (g ProductGroup) Contains(rowID int64) bool {
	for _, id := range g.RowIDs() {
		if id == rowID {
			return true
		}
	}
	return false
}

// SortRowsForGrouping orders rows oldest first with the row id as tie-breaker.
// This is the order GroupByName sees, which fixes which name seeds each group.
func SortRowsForGrouping(rows []models.StockLedgerRow) []models.StockLedgerRow {
	sorted := make([]models.StockLedgerRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// AggregateStock groups rows by product name and computes quantities and
// costs per group. Groups come out in the order their oldest row was created.
func AggregateStock(rows []models.StockLedgerRow, consumption []models.ConsumptionRecord) []ProductGroup {
	sorted := SortRowsForGrouping(rows)
	clusters := GroupByName(sorted, func(r models.StockLedgerRow) string { return r.ProductName })

	byLot := make(map[int64][]models.ConsumptionRecord)
	for _, c := range consumption {
		byLot[c.LotID] = append(byLot[c.LotID], c)
	}

	groups := make([]ProductGroup, 0, len(clusters))
	for _, cluster := range clusters {
		g := buildGroup(cluster.Items)
		for _, id := range g.RowIDs() {
			g.Consumption = append(g.Consumption, byLot[id]...)
		}
		sort.SliceStable(g.Consumption, func(i, j int) bool {
			return g.Consumption[i].ActivityAt.Before(g.Consumption[j].ActivityAt)
		})
		groups = append(groups, g)
	}
	return groups
}

// buildGroup expects rows already sorted oldest first.
func buildGroup(rows []models.StockLedgerRow) ProductGroup {
	g := ProductGroup{Name: canonicalName(rows)}
	for _, r := range rows {
		switch {
		case r.IsExit():
			g.Exits = append(g.Exits, r)
		case r.IsEntry():
			g.Entries = append(g.Entries, r)
		}
	}

	switch {
	case len(g.Entries) > 0:
		g.ReferenceUnit = g.Entries[0].ValueUnit()
	case len(rows) > 0:
		g.ReferenceUnit = rows[0].ValueUnit()
	}
	ref := g.ReferenceUnit

	type supplierKey struct {
		supplier string
		cents    int64
	}
	suppliers := make(map[supplierKey]int)
	brands, categories, units, batches := newStringSet(), newStringSet(), newStringSet(), newStringSet()
	expiries := make(map[string]bool)

	for _, e := range g.Entries {
		qty := ConvertBetweenUnits(math.Abs(e.Quantity), e.Unit, ref)
		price := referencePrice(e, ref)
		g.TotalEntries += qty
		g.TotalValue += price * qty

		brands.add(e.Brand)
		categories.add(e.Category)
		units.add(e.Unit)
		if e.Batch != nil {
			batches.add(*e.Batch)
		}
		if e.Expiry != nil && !expiries[e.Expiry.Format(time.DateOnly)] {
			expiries[e.Expiry.Format(time.DateOnly)] = true
			g.Expiries = append(g.Expiries, *e.Expiry)
		}

		supplier := ""
		if e.Supplier != nil {
			supplier = strings.TrimSpace(*e.Supplier)
		}
		key := supplierKey{supplier: supplier, cents: int64(math.Round(price * 100))}
		idx, ok := suppliers[key]
		if !ok {
			idx = len(g.Suppliers)
			suppliers[key] = idx
			g.Suppliers = append(g.Suppliers, SupplierBreakdown{Supplier: supplier, UnitPrice: price})
		}
		g.Suppliers[idx].Quantity += qty
		g.Suppliers[idx].RowIDs = append(g.Suppliers[idx].RowIDs, e.ID)
	}

	for _, x := range g.Exits {
		g.TotalExits += ConvertBetweenUnits(math.Abs(x.Quantity), x.Unit, ref)
	}

	g.NetQuantity = g.TotalEntries - g.TotalExits
	if g.TotalEntries > 0 {
		g.AverageCost = g.TotalValue / g.TotalEntries
	}
	g.Display = AutoScaleQuantity(g.NetQuantity, ref)
	g.Brands, g.Categories, g.Units, g.Batches = brands.items, categories.items, units.items, batches.items
	return g
}

// referencePrice is the row's unit price restated per reference unit. Rows
// without a unit price fall back to total value over quantity.
func referencePrice(r models.StockLedgerRow, ref string) float64 {
	if r.UnitPrice != nil {
		return ConvertValueBetweenUnits(*r.UnitPrice, r.ValueUnit(), ref)
	}
	if r.TotalValue != nil && r.Quantity != 0 {
		return ConvertValueBetweenUnits(*r.TotalValue/math.Abs(r.Quantity), r.Unit, ref)
	}
	return 0
}

// canonicalName picks the most frequent name; ties go to the first seen.
func canonicalName(rows []models.StockLedgerRow) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		name := strings.TrimSpace(r.ProductName)
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}

type stringSet struct {
	seen  map[string]bool
	items []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]bool)}
}

func (s *stringSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

// FindGroup returns the group containing rowID.
func FindGroup(groups []ProductGroup, rowID int64) (ProductGroup, error) {
	for _, g := range groups {
		if g.Contains(rowID) {
			return g, nil
		}
	}
	return ProductGroup{}, ErrGroupNotFound
}
