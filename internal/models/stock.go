package models

import (
	"strings"
	"time"
)

// MovementKind is the direction of a stock ledger row.
type MovementKind string

const (
	MovementEntry       MovementKind = "entrada"
	MovementExit        MovementKind = "saida"
	MovementApplication MovementKind = "aplicacao"
)

// StockLedgerRow is one physical movement of a product lot (estoque_de_produtos).
// Quantity is never negative; direction lives in MovementKind.
type StockLedgerRow struct {
	ID                int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID            string        `json:"user_id" gorm:"type:uuid;not null;index"`
	ProductName       string        `json:"nome_do_produto" gorm:"column:nome_do_produto;type:text;not null"`
	Brand             string        `json:"marca" gorm:"column:marca;type:text"`
	Category          string        `json:"categoria" gorm:"column:categoria;type:text"`
	Unit              string        `json:"unidade" gorm:"column:unidade;type:varchar(10);not null"`
	Quantity          float64       `json:"quantidade" gorm:"column:quantidade;type:numeric;not null"`
	InitialQuantity   float64       `json:"quantidade_inicial" gorm:"column:quantidade_inicial;type:numeric"`
	UnitPrice         *float64      `json:"valor_unitario" gorm:"column:valor_unitario;type:numeric"`
	OriginalValueUnit *string       `json:"unidade_valor_original" gorm:"column:unidade_valor_original;type:varchar(10)"`
	TotalValue        *float64      `json:"valor_total" gorm:"column:valor_total;type:numeric"`
	Kind              *MovementKind `json:"tipo_de_movimentacao" gorm:"column:tipo_de_movimentacao;type:varchar(20);index"`
	Batch             *string       `json:"lote" gorm:"column:lote;type:text"`
	Expiry            *time.Time    `json:"validade" gorm:"column:validade;type:date"`
	Supplier          *string       `json:"fornecedor" gorm:"column:fornecedor;type:text"`
	Registration      *string       `json:"registro_mapa" gorm:"column:registro_mapa;type:text"`
	CreatedAt         time.Time     `json:"created_at" gorm:"column:created_at;index"`
	ReferenceEntryID  *int64        `json:"entrada_referencia_id" gorm:"column:entrada_referencia_id;index"`
	ProductID         *string       `json:"produto_id" gorm:"column:produto_id;type:text;index"`
}

// TableName maps the model to its Supabase table.
func (StockLedgerRow) TableName() string {
	return "estoque_de_produtos"
}

// IsEntry reports whether the row adds stock. Legacy rows without a kind count as entries.
func (r StockLedgerRow) IsEntry() bool {
	return r.Kind == nil || *r.Kind == "" || *r.Kind == MovementEntry
}

// IsExit reports whether the row consumes stock.
func (r StockLedgerRow) IsExit() bool {
	return r.Kind != nil && (*r.Kind == MovementExit || *r.Kind == MovementApplication)
}

// ValueUnit is the unit the row's unit price is expressed in.
func (r StockLedgerRow) ValueUnit() string {
	if r.OriginalValueUnit != nil && strings.TrimSpace(*r.OriginalValueUnit) != "" {
		return *r.OriginalValueUnit
	}
	return r.Unit
}

// ConsumptionRecord links a consumed lot to the agronomic activity that used it
// (lancamento_produtos joined with its activity).
type ConsumptionRecord struct {
	LotID        int64     `json:"estoque_id" gorm:"column:estoque_id"`
	Quantity     float64   `json:"quantidade" gorm:"column:quantidade"`
	Unit         string    `json:"unidade" gorm:"column:unidade"`
	ActivityID   string    `json:"atividade_id" gorm:"column:atividade_id"`
	ActivityName string    `json:"atividade_nome" gorm:"column:atividade_nome"`
	ActivityAt   time.Time `json:"atividade_data" gorm:"column:atividade_data"`
}

// MovementOrigin tags where a history record came from.
type MovementOrigin string

const (
	OriginManualAdjustment MovementOrigin = "ajuste_manual"
	OriginFIFORemoval      MovementOrigin = "remocao_fifo"
)

// MovementHistory is the audit trail of stock corrections (movimentacoes_estoque).
type MovementHistory struct {
	ID                string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            string         `json:"user_id" gorm:"type:uuid;not null;index"`
	ProductID         string         `json:"produto_id" gorm:"column:produto_id;type:text;index"`
	ProductName       string         `json:"nome_do_produto" gorm:"column:nome_do_produto;type:text"`
	Kind              MovementKind   `json:"tipo" gorm:"column:tipo;type:varchar(20);not null"`
	Origin            MovementOrigin `json:"origem" gorm:"column:origem;type:varchar(30)"`
	Quantity          float64        `json:"quantidade" gorm:"column:quantidade;type:numeric;not null"`
	Unit              string         `json:"unidade" gorm:"column:unidade;type:varchar(10);not null"`
	UnitPrice         float64        `json:"valor_unitario" gorm:"column:valor_unitario;type:numeric"`
	OriginalValueUnit string         `json:"unidade_valor_original" gorm:"column:unidade_valor_original;type:varchar(10)"`
	Notes             string         `json:"observacao" gorm:"column:observacao;type:text"`
	CreatedAt         time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName maps the model to its Supabase table.
func (MovementHistory) TableName() string {
	return "movimentacoes_estoque"
}

// ProductMovementRequest carries the parameters of the registration stored procedures.
type ProductMovementRequest struct {
	UserID       string     `json:"-"`
	Name         string     `json:"nome" binding:"required"`
	Brand        string     `json:"marca"`
	Category     string     `json:"categoria"`
	BaseUnit     string     `json:"unidade" binding:"required"`
	Registration string     `json:"registro_mapa"`
	Supplier     string     `json:"fornecedor"`
	Quantity     float64    `json:"quantidade" binding:"required"`
	TotalValue   float64    `json:"valor_total"`
	Batch        string     `json:"lote"`
	Expiry       *time.Time `json:"validade"`
}
