package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

// TransactionState is how a transaction counts on a given day.
type TransactionState string

const (
	StateRealized TransactionState = "realizado"
	StateFuture   TransactionState = "futuro"
)

// PeriodKind names the period filters offered by the dashboard.
type PeriodKind string

const (
	PeriodLast7Days    PeriodKind = "ultimos-7-dias"
	PeriodLast30Days   PeriodKind = "ultimos-30-dias"
	PeriodCurrentMonth PeriodKind = "mes-atual"
	PeriodHarvest      PeriodKind = "safra-atual"
	PeriodNext7Days    PeriodKind = "proximos-7-dias"
	PeriodNext30Days   PeriodKind = "proximos-30-dias"
	PeriodCustom       PeriodKind = "personalizado"
	PeriodAll          PeriodKind = "todos"
)

// harvestStartMonth opens the coffee season, which runs May through April.
const harvestStartMonth = time.May

// civilDay drops the clock and zone, keeping the calendar date as written.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClassifyTransaction is Future only for an Agendado transaction dated after
// today; everything else is Realized.
func ClassifyTransaction(tx models.FinancialTransaction, now time.Time) TransactionState {
	if tx.IsScheduled() && civilDay(tx.EffectiveDate()).After(civilDay(now)) {
		return StateFuture
	}
	return StateRealized
}

// PeriodWindow is an inclusive range of calendar days. Zero bounds are open.
type PeriodWindow struct {
	Kind          PeriodKind `json:"periodo"`
	Start         time.Time  `json:"inicio"`
	End           time.Time  `json:"fim"`
	IncludeFuture bool       `json:"inclui_futuro"`
	FutureOnly    bool       `json:"somente_futuro"`
}

// Contains reports whether t falls on a day inside the window.
func (w PeriodWindow) Contains(t time.Time) bool {
	d := civilDay(t)
	if !w.Start.IsZero() && d.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && d.After(w.End) {
		return false
	}
	return true
}

// GetPeriodDates resolves a period filter against now. The custom bounds are
// only read for PeriodCustom.
func GetPeriodDates(kind PeriodKind, customStart, customEnd *time.Time, now time.Time) (PeriodWindow, error) {
	today := civilDay(now)
	w := PeriodWindow{Kind: kind}

	switch kind {
	case PeriodLast7Days:
		w.Start, w.End = today.AddDate(0, 0, -6), today
	case PeriodLast30Days:
		w.Start, w.End = today.AddDate(0, 0, -29), today
	case PeriodCurrentMonth:
		w.Start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		w.End = w.Start.AddDate(0, 1, -1)
	case PeriodHarvest:
		year := today.Year()
		if today.Month() < harvestStartMonth {
			year--
		}
		w.Start = time.Date(year, harvestStartMonth, 1, 0, 0, 0, 0, time.UTC)
		w.End = w.Start.AddDate(1, 0, -1)
	case PeriodNext7Days:
		w.Start, w.End = today, today.AddDate(0, 0, 7)
		w.FutureOnly = true
	case PeriodNext30Days:
		w.Start, w.End = today, today.AddDate(0, 0, 30)
		w.FutureOnly = true
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return PeriodWindow{}, ErrInvalidPeriod
		}
		w.Start, w.End = civilDay(*customStart), civilDay(*customEnd)
		if w.End.Before(w.Start) {
			return PeriodWindow{}, ErrInvalidPeriod
		}
	case PeriodAll:
		w.IncludeFuture = true
		return w, nil
	default:
		return PeriodWindow{}, ErrInvalidPeriod
	}

	w.IncludeFuture = w.End.After(today)
	return w, nil
}

// PeriodBalance is the dashboard's balance card for one period.
type PeriodBalance struct {
	Window           PeriodWindow     `json:"janela"`
	TotalEntries     decimal.Decimal  `json:"total_entradas"`
	TotalExits       decimal.Decimal  `json:"total_saidas"`
	Balance          decimal.Decimal  `json:"saldo_periodo"`
	CurrentBalance   decimal.Decimal  `json:"saldo_atual"`
	FutureNet        decimal.Decimal  `json:"saldo_futuro"`
	ProjectedBalance *decimal.Decimal `json:"saldo_projetado,omitempty"`
}

// CalculatePeriodBalance sums the window's entries and exits. Future-only
// windows count scheduled transactions; other windows count realized ones.
// CurrentBalance is always the realized total to date, whatever the window.
func CalculatePeriodBalance(txs []models.FinancialTransaction, w PeriodWindow, now time.Time) PeriodBalance {
	b := PeriodBalance{Window: w}
	for _, tx := range txs {
		state := ClassifyTransaction(tx, now)
		inWindow := w.Contains(tx.EffectiveDate())

		if state == StateRealized {
			b.CurrentBalance = b.CurrentBalance.Add(tx.Value)
		}
		if state == StateFuture && inWindow {
			b.FutureNet = b.FutureNet.Add(tx.Value)
		}

		counts := inWindow && (state == StateFuture) == w.FutureOnly
		if !counts {
			continue
		}
		if tx.Value.IsPositive() {
			b.TotalEntries = b.TotalEntries.Add(tx.Value)
		} else {
			b.TotalExits = b.TotalExits.Add(tx.Value.Abs())
		}
	}

	b.Balance = b.TotalEntries.Sub(b.TotalExits)
	if w.IncludeFuture {
		projected := b.CurrentBalance.Add(b.FutureNet)
		b.ProjectedBalance = &projected
	}
	return b
}
