package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

// StockRepository reads the product ledger and invokes the Supabase
// procedures that write to it.
type StockRepository interface {
	ListRows(ctx context.Context, userID string) ([]models.StockLedgerRow, error)
	ListConsumption(ctx context.Context, lotIDs []int64) ([]models.ConsumptionRecord, error)
	RegisterEntry(ctx context.Context, req models.ProductMovementRequest) error
	RegisterExit(ctx context.Context, req models.ProductMovementRequest) error
	ProcessEntry(ctx context.Context, productID string, quantity, unitPrice float64) error
	LogMovement(ctx context.Context, h *models.MovementHistory) error
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) ListRows(ctx context.Context, userID string) ([]models.StockLedgerRow, error) {
	var rows []models.StockLedgerRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list stock rows: %w", err)
	}
	return rows, nil
}

func (r *stockRepo) ListConsumption(ctx context.Context, lotIDs []int64) ([]models.ConsumptionRecord, error) {
	if len(lotIDs) == 0 {
		return nil, nil
	}
	var out []models.ConsumptionRecord
	err := r.db.WithContext(ctx).
		Table("lancamento_produtos AS lp").
		Select(`lp.estoque_id, lp.quantidade, lp.unidade,
			la.atividade_id::text AS atividade_id, la.nome_atividade AS atividade_nome,
			COALESCE(la.data_atividade, la.created_at) AS atividade_data`).
		Joins("JOIN lancamentos_agricolas AS la ON la.atividade_id = lp.atividade_id").
		Where("lp.estoque_id IN ?", lotIDs).
		Order("atividade_data ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list consumption: %w", err)
	}
	return out, nil
}

func movementParams(req models.ProductMovementRequest) map[string]interface{} {
	return map[string]interface{}{
		"p_nome":          req.Name,
		"p_marca":         nullIfBlank(req.Brand),
		"p_categoria":     nullIfBlank(req.Category),
		"p_unidade_base":  req.BaseUnit,
		"p_registro_mapa": nullIfBlank(req.Registration),
		"p_fornecedor":    nullIfBlank(req.Supplier),
		"p_quantidade":    req.Quantity,
		"p_valor_total":   req.TotalValue,
		"p_lote":          nullIfBlank(req.Batch),
		"p_validade":      nullDate(req.Expiry),
		"p_user_id":       req.UserID,
	}
}

const movementArgs = `p_nome => @p_nome, p_marca => @p_marca, p_categoria => @p_categoria,
	p_unidade_base => @p_unidade_base, p_registro_mapa => @p_registro_mapa,
	p_fornecedor => @p_fornecedor, p_quantidade => @p_quantidade,
	p_valor_total => @p_valor_total, p_lote => @p_lote, p_validade => @p_validade,
	p_user_id => @p_user_id`

func (r *stockRepo) RegisterEntry(ctx context.Context, req models.ProductMovementRequest) error {
	err := r.db.WithContext(ctx).
		Exec("SELECT registrar_produto_e_entrada("+movementArgs+")", movementParams(req)).Error
	if err != nil {
		return fmt.Errorf("registrar_produto_e_entrada: %w", err)
	}
	return nil
}

func (r *stockRepo) RegisterExit(ctx context.Context, req models.ProductMovementRequest) error {
	err := r.db.WithContext(ctx).
		Exec("SELECT registrar_produto_e_saida("+movementArgs+")", movementParams(req)).Error
	if err != nil {
		return fmt.Errorf("registrar_produto_e_saida: %w", err)
	}
	return nil
}

func (r *stockRepo) ProcessEntry(ctx context.Context, productID string, quantity, unitPrice float64) error {
	err := r.db.WithContext(ctx).Exec(
		"SELECT processar_entrada(p_produto_id => @p_produto_id, p_quantidade => @p_quantidade, p_valor_unitario => @p_valor_unitario)",
		map[string]interface{}{
			"p_produto_id":     productID,
			"p_quantidade":     quantity,
			"p_valor_unitario": unitPrice,
		}).Error
	if err != nil {
		return fmt.Errorf("processar_entrada: %w", err)
	}
	return nil
}

func (r *stockRepo) LogMovement(ctx context.Context, h *models.MovementHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("log movement: %w", err)
	}
	return nil
}

func nullIfBlank(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(time.DateOnly)
}
