package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

type NotificationRepository interface {
	List(ctx context.Context, userID string, limit int) ([]models.NotificationRow, error)
	Create(ctx context.Context, row *models.NotificationRow) error
	MarkRead(ctx context.Context, userID, id string) error
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) List(ctx context.Context, userID string, limit int) ([]models.NotificationRow, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []models.NotificationRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}

func (r *notificationRepo) Create(ctx context.Context, row *models.NotificationRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead returns gorm.ErrRecordNotFound when the notification is not the user's.
func (r *notificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.NotificationRow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("lida", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
