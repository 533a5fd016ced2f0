package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement status of a ledger entry.
type TransactionStatus string

const (
	// TransactionStatusScheduled marks a payment booked for a future date.
	TransactionStatusScheduled TransactionStatus = "Agendado"
	TransactionStatusSettled   TransactionStatus = "Pago"
)

// CategoryIncome is reserved for revenue and never counted as spending.
const CategoryIncome = "Receita"

// FinancialTransaction is one row of transacoes_financeiras.
// Value is signed: positive is income, negative is expense.
type FinancialTransaction struct {
	ID            string            `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        string            `json:"user_id" gorm:"type:uuid;not null;index"`
	Description   string            `json:"descricao" gorm:"column:descricao;type:text"`
	Category      string            `json:"categoria" gorm:"column:categoria;type:varchar(100);index"`
	Value         decimal.Decimal   `json:"valor" gorm:"column:valor;type:numeric(15,2);not null"`
	Status        TransactionStatus `json:"status" gorm:"column:status;type:varchar(20);index"`
	ScheduledDate *time.Time        `json:"data_agendamento_pagamento" gorm:"column:data_agendamento_pagamento;index"`
	RegisteredAt  time.Time         `json:"data_registro" gorm:"column:data_registro;index"`
	CreatedAt     time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName maps the model to its Supabase table.
func (FinancialTransaction) TableName() string {
	return "transacoes_financeiras"
}

// EffectiveDate is the date the transaction counts on: the scheduled payment
// date when present, otherwise the registration date.
func (ft FinancialTransaction) EffectiveDate() time.Time {
	if ft.ScheduledDate != nil && !ft.ScheduledDate.IsZero() {
		return *ft.ScheduledDate
	}
	return ft.RegisteredAt
}

// IsScheduled reports whether the transaction is still booked as Agendado.
func (ft FinancialTransaction) IsScheduled() bool {
	return ft.Status == TransactionStatusScheduled
}
