package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/repository"
)

// Event names pushed to dashboards.
const (
	EventStockChanged = "estoque_atualizado"
	EventNotification = "notificacao"
)

// Publisher fans events out to a user's open dashboards.
type Publisher interface {
	Publish(userID, event string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, interface{}) {}

// StockService recomputes product groups from the ledger and forwards stock
// writes to the database procedures. It never patches groups in place: every
// read derives them again from the current rows.
type StockService struct {
	repo      repository.StockRepository
	cache     ConsumptionCache
	publisher Publisher
}

// NewStockService wires the service. publisher may be nil.
func NewStockService(repo repository.StockRepository, cache ConsumptionCache, publisher Publisher) *StockService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &StockService{repo: repo, cache: cache, publisher: publisher}
}

// ListProductGroups returns the user's stock grouped by product. Read
// failures are logged and yield an empty list.
func (s *StockService) ListProductGroups(ctx context.Context, userID string) ([]ProductGroup, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	groups, err := s.loadGroups(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load stock groups")
		return []ProductGroup{}, nil
	}
	return groups, nil
}

// ShortageAlerts lists the user's products in deficit.
func (s *StockService) ShortageAlerts(ctx context.Context, userID string) ([]models.ShortageAlert, error) {
	groups, err := s.ListProductGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerts := ShortageAlerts(groups)
	if alerts == nil {
		alerts = []models.ShortageAlert{}
	}
	return alerts, nil
}

func (s *StockService) loadGroups(ctx context.Context, userID string) ([]ProductGroup, error) {
	rows, err := s.repo.ListRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return AggregateStock(rows, s.consumption(ctx, ids)), nil
}

// consumption serves the activity join from cache when possible. A failed
// join only drops the activity details, the groups are still computed.
func (s *StockService) consumption(ctx context.Context, lotIDs []int64) []models.ConsumptionRecord {
	if len(lotIDs) == 0 {
		return nil
	}
	if s.cache != nil {
		if records, ok := s.cache.Get(ctx, lotIDs); ok {
			return records
		}
	}
	records, err := s.repo.ListConsumption(ctx, lotIDs)
	if err != nil {
		log.Warn().Err(err).Int("lots", len(lotIDs)).Msg("failed to load activity consumption")
		return nil
	}
	if s.cache != nil {
		s.cache.Set(ctx, lotIDs, records)
	}
	return records
}

func validateMovement(req models.ProductMovementRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.BaseUnit) == "" {
		return ErrInvalidProduct
	}
	if !validAmount(req.Quantity) || req.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !validAmount(req.TotalValue) || req.TotalValue < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// RegisterProductEntry registers the product if needed and records an entry.
func (s *StockService) RegisterProductEntry(ctx context.Context, userID string, req models.ProductMovementRequest) error {
	return s.registerMovement(ctx, userID, req, s.repo.RegisterEntry)
}

// RegisterProductExit records an exit; the procedure drains the oldest lots first.
func (s *StockService) RegisterProductExit(ctx context.Context, userID string, req models.ProductMovementRequest) error {
	return s.registerMovement(ctx, userID, req, s.repo.RegisterExit)
}

func (s *StockService) registerMovement(ctx context.Context, userID string, req models.ProductMovementRequest,
	call func(context.Context, models.ProductMovementRequest) error) error {
	if userID == "" {
		return ErrMissingUserID
	}
	if err := validateMovement(req); err != nil {
		return err
	}
	req.UserID = userID
	req.Name = strings.TrimSpace(req.Name)
	req.BaseUnit = strings.TrimSpace(req.BaseUnit)

	// "3 sacos de 50 kg" arrives as quantity 3, unit "saco 50 kg".
	if isPackageUnit(req.BaseUnit) {
		if pkg, err := ParsePackageSize(req.BaseUnit); err == nil {
			req.Quantity *= pkg.Value
			req.BaseUnit = pkg.Unit
		} else {
			log.Debug().Str("unit", req.BaseUnit).Msg("package size not recognized, keeping unit")
		}
	}
	req.BaseUnit = NormalizeUnit(req.BaseUnit)

	if err := call(ctx, req); err != nil {
		return err
	}
	s.stockChanged(ctx, userID)
	return nil
}

// CorrectDeficit credits quantity at unitPrice to the group holding rowID.
// If the procedure fails nothing else happens. If only the history insert
// fails the correction stands and the error is logged.
func (s *StockService) CorrectDeficit(ctx context.Context, userID string, rowID int64, quantity, unitPrice float64) (DeficitCorrection, error) {
	if userID == "" {
		return DeficitCorrection{}, ErrMissingUserID
	}
	groups, err := s.loadGroups(ctx, userID)
	if err != nil {
		return DeficitCorrection{}, fmt.Errorf("load stock: %w", err)
	}
	group, err := FindGroup(groups, rowID)
	if err != nil {
		return DeficitCorrection{}, err
	}
	plan, err := PlanDeficitCorrection(group, quantity, unitPrice)
	if err != nil {
		return DeficitCorrection{}, err
	}

	if err := s.repo.ProcessEntry(ctx, plan.ProductID, plan.Quantity, plan.UnitPrice); err != nil {
		return DeficitCorrection{}, err
	}

	history := plan.HistoryRecord(userID)
	if err := s.repo.LogMovement(ctx, &history); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID).
			Str("product", plan.ProductName).
			Msg("stock corrected but movement history was not recorded")
	}

	log.Info().
		Str("user_id", userID).
		Str("product", plan.ProductName).
		Float64("quantity", plan.Quantity).
		Float64("deficit_closed", plan.DeficitClosed).
		Msg("deficit corrected")

	s.stockChanged(ctx, userID)
	return plan, nil
}

// RemoveQuantityFIFO submits one exit for the group holding rowID, valued at
// the group's weighted-average cost.
func (s *StockService) RemoveQuantityFIFO(ctx context.Context, userID string, rowID int64, quantity float64) (FIFORemoval, error) {
	if userID == "" {
		return FIFORemoval{}, ErrMissingUserID
	}
	groups, err := s.loadGroups(ctx, userID)
	if err != nil {
		return FIFORemoval{}, fmt.Errorf("load stock: %w", err)
	}
	group, err := FindGroup(groups, rowID)
	if err != nil {
		return FIFORemoval{}, err
	}
	removal, err := PlanFIFORemoval(group, quantity)
	if err != nil {
		return FIFORemoval{}, err
	}
	if err := s.repo.RegisterExit(ctx, removal.Request(userID)); err != nil {
		return FIFORemoval{}, err
	}
	s.stockChanged(ctx, userID)
	return removal, nil
}

// InvalidateConsumption drops memoized activity joins after an external write.
func (s *StockService) InvalidateConsumption(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *StockService) stockChanged(ctx context.Context, userID string) {
	s.InvalidateConsumption(ctx)
	s.publisher.Publish(userID, EventStockChanged, nil)
}
