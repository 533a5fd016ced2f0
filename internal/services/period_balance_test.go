package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

var saoPaulo = time.FixedZone("BRT", -3*3600)

// 15 Oct 2025, 22:30 in Brazil is already the 16th in UTC.
var balanceNow = time.Date(2025, 10, 15, 22, 30, 0, 0, saoPaulo)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(value string, status models.TransactionStatus, date time.Time) models.FinancialTransaction {
	return models.FinancialTransaction{
		Value:         decimal.RequireFromString(value),
		Status:        status,
		ScheduledDate: ptr(date),
		RegisteredAt:  date,
	}
}

func TestClassifyTransactionBoundary(t *testing.T) {
	today := tx("-100", models.TransactionStatusScheduled, day(2025, 10, 15))
	tomorrow := tx("-100", models.TransactionStatusScheduled, day(2025, 10, 16))
	paidTomorrow := tx("-100", models.TransactionStatusSettled, day(2025, 10, 16))
	overdue := tx("-100", models.TransactionStatusScheduled, day(2025, 9, 1))

	assert.Equal(t, StateRealized, ClassifyTransaction(today, balanceNow))
	assert.Equal(t, StateFuture, ClassifyTransaction(tomorrow, balanceNow))
	assert.Equal(t, StateRealized, ClassifyTransaction(paidTomorrow, balanceNow))
	assert.Equal(t, StateRealized, ClassifyTransaction(overdue, balanceNow))
}

func TestClassifyFallsBackToRegistrationDate(t *testing.T) {
	scheduled := models.FinancialTransaction{
		Value:        decimal.NewFromInt(10),
		Status:       models.TransactionStatusScheduled,
		RegisteredAt: day(2025, 10, 20),
	}
	assert.Equal(t, StateFuture, ClassifyTransaction(scheduled, balanceNow))
}

func TestGetPeriodDates(t *testing.T) {
	cases := []struct {
		kind          PeriodKind
		start, end    time.Time
		includeFuture bool
		futureOnly    bool
	}{
		{PeriodLast7Days, day(2025, 10, 9), day(2025, 10, 15), false, false},
		{PeriodLast30Days, day(2025, 9, 16), day(2025, 10, 15), false, false},
		{PeriodCurrentMonth, day(2025, 10, 1), day(2025, 10, 31), true, false},
		{PeriodHarvest, day(2025, 5, 1), day(2026, 4, 30), true, false},
		{PeriodNext7Days, day(2025, 10, 15), day(2025, 10, 22), true, true},
		{PeriodNext30Days, day(2025, 10, 15), day(2025, 11, 14), true, true},
	}
	for _, c := range cases {
		t.Run(string(c.kind), func(t *testing.T) {
			w, err := GetPeriodDates(c.kind, nil, nil, balanceNow)
			require.NoError(t, err)
			assert.Equal(t, c.start, w.Start)
			assert.Equal(t, c.end, w.End)
			assert.Equal(t, c.includeFuture, w.IncludeFuture)
			assert.Equal(t, c.futureOnly, w.FutureOnly)
		})
	}
}

func TestGetPeriodDatesHarvestBeforeMay(t *testing.T) {
	w, err := GetPeriodDates(PeriodHarvest, nil, nil, time.Date(2026, 3, 10, 9, 0, 0, 0, saoPaulo))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 5, 1), w.Start)
	assert.Equal(t, day(2026, 4, 30), w.End)
}

func TestGetPeriodDatesCustomAndAll(t *testing.T) {
	start, end := day(2025, 1, 1), day(2025, 12, 31)
	w, err := GetPeriodDates(PeriodCustom, &start, &end, balanceNow)
	require.NoError(t, err)
	assert.True(t, w.IncludeFuture)

	past := day(2025, 6, 30)
	w, err = GetPeriodDates(PeriodCustom, &start, &past, balanceNow)
	require.NoError(t, err)
	assert.False(t, w.IncludeFuture)

	_, err = GetPeriodDates(PeriodCustom, &end, &start, balanceNow)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = GetPeriodDates(PeriodCustom, nil, &end, balanceNow)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = GetPeriodDates("semana-que-vem", nil, nil, balanceNow)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	w, err = GetPeriodDates(PeriodAll, nil, nil, balanceNow)
	require.NoError(t, err)
	assert.True(t, w.Start.IsZero())
	assert.True(t, w.End.IsZero())
	assert.True(t, w.Contains(day(1999, 1, 1)))
}

func TestPeriodBalanceNext7DaysCountsOnlyFuture(t *testing.T) {
	txs := []models.FinancialTransaction{
		tx("500", models.TransactionStatusScheduled, day(2025, 10, 18)),
		tx("-200", models.TransactionStatusScheduled, day(2025, 10, 20)),
		// realized, inside the window: must not count
		tx("1000", models.TransactionStatusSettled, day(2025, 10, 15)),
		tx("-70", models.TransactionStatusScheduled, day(2025, 10, 15)),
		// future, outside the window
		tx("-999", models.TransactionStatusScheduled, day(2025, 12, 1)),
		// realized history
		tx("-300", models.TransactionStatusSettled, day(2025, 8, 1)),
	}
	w, err := GetPeriodDates(PeriodNext7Days, nil, nil, balanceNow)
	require.NoError(t, err)

	b := CalculatePeriodBalance(txs, w, balanceNow)
	assert.Equal(t, "500", b.TotalEntries.String())
	assert.Equal(t, "200", b.TotalExits.String())
	assert.Equal(t, "300", b.Balance.String())
	assert.Equal(t, "630", b.CurrentBalance.String())
	assert.Equal(t, "300", b.FutureNet.String())
	require.NotNil(t, b.ProjectedBalance)
	assert.Equal(t, "930", b.ProjectedBalance.String())
}

func TestPeriodBalancePastWindowCountsRealized(t *testing.T) {
	txs := []models.FinancialTransaction{
		tx("800", models.TransactionStatusSettled, day(2025, 10, 10)),
		tx("-150.50", models.TransactionStatusSettled, day(2025, 10, 12)),
		tx("-60", models.TransactionStatusScheduled, day(2025, 10, 14)), // overdue counts as realized
		tx("-400", models.TransactionStatusSettled, day(2025, 9, 1)),   // before the window
		tx("-999", models.TransactionStatusScheduled, day(2025, 10, 17)),
	}
	w, err := GetPeriodDates(PeriodLast7Days, nil, nil, balanceNow)
	require.NoError(t, err)

	b := CalculatePeriodBalance(txs, w, balanceNow)
	assert.Equal(t, "800", b.TotalEntries.String())
	assert.Equal(t, "210.5", b.TotalExits.String())
	assert.Equal(t, "589.5", b.Balance.String())
	assert.Equal(t, "189.5", b.CurrentBalance.String())
	assert.Nil(t, b.ProjectedBalance)
}

func TestPeriodBalanceCurrentMonthProjects(t *testing.T) {
	txs := []models.FinancialTransaction{
		tx("1000", models.TransactionStatusSettled, day(2025, 10, 2)),
		tx("-250", models.TransactionStatusScheduled, day(2025, 10, 25)),
		tx("-100", models.TransactionStatusScheduled, day(2025, 11, 5)),
	}
	w, err := GetPeriodDates(PeriodCurrentMonth, nil, nil, balanceNow)
	require.NoError(t, err)

	b := CalculatePeriodBalance(txs, w, balanceNow)
	assert.Equal(t, "1000", b.TotalEntries.String())
	assert.True(t, b.TotalExits.IsZero())
	require.NotNil(t, b.ProjectedBalance)
	assert.Equal(t, "750", b.ProjectedBalance.String())
}
