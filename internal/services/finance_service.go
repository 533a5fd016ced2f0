package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/repository"
)

// FinanceService serves the balance and cost cards. Reads never fail the
// dashboard: a repository error is logged and treated as no transactions.
type FinanceService struct {
	repo repository.FinanceRepository
	now  func() time.Time
}

// NewFinanceService wires the service; now may be nil to use the wall clock.
func NewFinanceService(repo repository.FinanceRepository, now func() time.Time) *FinanceService {
	if now == nil {
		now = time.Now
	}
	return &FinanceService{repo: repo, now: now}
}

func (s *FinanceService) transactions(ctx context.Context, userID string) []models.FinancialTransaction {
	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load transactions")
		return nil
	}
	return txs
}

// PeriodBalance computes the balance card for the given period filter.
func (s *FinanceService) PeriodBalance(ctx context.Context, userID string, kind PeriodKind, start, end *time.Time) (PeriodBalance, error) {
	if userID == "" {
		return PeriodBalance{}, ErrMissingUserID
	}
	now := s.now()
	w, err := GetPeriodDates(kind, start, end, now)
	if err != nil {
		return PeriodBalance{}, err
	}
	return CalculatePeriodBalance(s.transactions(ctx, userID), w, now), nil
}

// CostComparison compares realized spending with the CONAB benchmark.
func (s *FinanceService) CostComparison(ctx context.Context, userID string, area, productivity float64) (CostComparison, error) {
	if userID == "" {
		return CostComparison{}, ErrMissingUserID
	}
	spend := SpendingByCategory(s.transactions(ctx, userID), s.now())
	return CompareWithConab(spend, area, productivity), nil
}
