package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

type FinanceRepository interface {
	ListTransactions(ctx context.Context, userID string) ([]models.FinancialTransaction, error)
}

type financeRepo struct{ db *gorm.DB }

func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &financeRepo{db: db}
}

func (r *financeRepo) ListTransactions(ctx context.Context, userID string) ([]models.FinancialTransaction, error) {
	var txs []models.FinancialTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("COALESCE(data_agendamento_pagamento, data_registro) DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
