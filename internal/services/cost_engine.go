package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

// CategorySpend is the absolute amount spent in one category.
type CategorySpend struct {
	Category string          `json:"categoria"`
	Amount   decimal.Decimal `json:"valor"`
}

// CostComparisonRow pairs the farm's cost with the CONAB benchmark for one category.
type CostComparisonRow struct {
	Category            string  `json:"categoria"`
	RealPerHectare      float64 `json:"real_por_hectare"`
	RealPerBag          float64 `json:"real_por_saca"`
	ReferencePerHectare float64 `json:"conab_por_hectare"`
	ReferencePerBag     float64 `json:"conab_por_saca"`
}

// CostComparison is the full table with independent column totals.
type CostComparison struct {
	Area         float64             `json:"area_ha"`
	Productivity float64             `json:"produtividade_sacas_ha"`
	Rows         []CostComparisonRow `json:"linhas"`
	Totals       CostComparisonRow   `json:"totais"`
	// Spend whose category has no benchmark row.
	Unmatched []CategorySpend `json:"sem_referencia"`
}

func newPtBRCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
}

// SpendingByCategory sums the absolute value of every realized transaction
// outside the income category.
func SpendingByCategory(txs []models.FinancialTransaction, now time.Time) []CategorySpend {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, tx := range txs {
		if tx.Category == models.CategoryIncome || ClassifyTransaction(tx, now) != StateRealized {
			continue
		}
		if _, ok := totals[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Value.Abs())
	}

	out := make([]CategorySpend, 0, len(order))
	for _, c := range order {
		out = append(out, CategorySpend{Category: c, Amount: totals[c]})
	}
	col := newPtBRCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Category, out[j].Category) < 0
	})
	return out
}

// CompareWithConab emits one row per benchmark category, including those with
// no spend. Categories are matched ignoring case and accents.
func CompareWithConab(spend []CategorySpend, area, productivity float64) CostComparison {
	spentByKey := make(map[string]decimal.Decimal)
	for _, s := range spend {
		if s.Category == models.CategoryIncome {
			continue
		}
		key := NormalizeName(s.Category)
		spentByKey[key] = spentByKey[key].Add(s.Amount.Abs())
	}

	reference := models.CustoConabCafe()
	matched := make(map[string]bool, len(reference))
	cmp := CostComparison{Area: area, Productivity: productivity, Rows: make([]CostComparisonRow, 0, len(reference))}

	for _, item := range reference {
		key := NormalizeName(item.Discriminacao)
		matched[key] = true
		spent := spentByKey[key].InexactFloat64()

		row := CostComparisonRow{
			Category:            item.Discriminacao,
			ReferencePerHectare: item.CustoPorHectare,
			ReferencePerBag:     item.CustoPorSaca,
		}
		if area > 0 {
			row.RealPerHectare = spent / area
		}
		if productivity > 0 {
			row.RealPerBag = row.RealPerHectare / productivity
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	col := newPtBRCollator()
	sort.SliceStable(cmp.Rows, func(i, j int) bool {
		return col.CompareString(cmp.Rows[i].Category, cmp.Rows[j].Category) < 0
	})

	cmp.Totals.Category = "Total"
	for _, r := range cmp.Rows {
		cmp.Totals.RealPerHectare += r.RealPerHectare
		cmp.Totals.RealPerBag += r.RealPerBag
		cmp.Totals.ReferencePerHectare += r.ReferencePerHectare
		cmp.Totals.ReferencePerBag += r.ReferencePerBag
	}

	for _, s := range spend {
		if s.Category != models.CategoryIncome && !matched[NormalizeName(s.Category)] {
			cmp.Unmatched = append(cmp.Unmatched, s)
		}
	}
	return cmp
}
