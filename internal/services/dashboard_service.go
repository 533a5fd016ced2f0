package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

// DashboardSummary is the landing view: stock health, this month's cash and
// what the weather holds.
type DashboardSummary struct {
	Products      int                    `json:"total_produtos"`
	Shortages     []models.ShortageAlert `json:"faltas"`
	MonthBalance  PeriodBalance          `json:"saldo_mes"`
	WeatherAlerts []models.WeatherAlert  `json:"alertas_clima"`
}

type DashboardService struct {
	stock   *StockService
	finance *FinanceService
	weather *WeatherService
}

// NewDashboardService wires the service. weather may be nil.
func NewDashboardService(stock *StockService, finance *FinanceService, weather *WeatherService) *DashboardService {
	return &DashboardService{stock: stock, finance: finance, weather: weather}
}

// Summary loads the three sources concurrently. Each source is already
// fail-safe, so only a missing user id fails the whole summary.
func (s *DashboardService) Summary(ctx context.Context, userID string) (DashboardSummary, error) {
	if userID == "" {
		return DashboardSummary{}, ErrMissingUserID
	}

	var sum DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		groups, err := s.stock.ListProductGroups(gctx, userID)
		if err != nil {
			return err
		}
		sum.Products = len(groups)
		sum.Shortages = ShortageAlerts(groups)
		if sum.Shortages == nil {
			sum.Shortages = []models.ShortageAlert{}
		}
		return nil
	})
	g.Go(func() error {
		b, err := s.finance.PeriodBalance(gctx, userID, PeriodCurrentMonth, nil, nil)
		sum.MonthBalance = b
		return err
	})
	g.Go(func() error {
		sum.WeatherAlerts = []models.WeatherAlert{}
		if s.weather != nil {
			sum.WeatherAlerts = s.weather.Alerts(gctx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}
	return sum, nil
}
