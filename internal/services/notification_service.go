package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/repository"
)

// ErrNotificationNotFound is returned when marking someone else's or a missing notification.
var ErrNotificationNotFound = errors.New("notificação não encontrada")

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
	now       func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, publisher Publisher, now func() time.Time) *NotificationService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{repo: repo, publisher: publisher, now: now}
}

// List returns the user's latest notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	rows, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list notifications")
		return []models.Notification{}, nil
	}
	out := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DecodeNotification(row))
	}
	return out, nil
}

// Notify stores a notification and pushes it to the user's dashboards.
func (s *NotificationService) Notify(ctx context.Context, userID string, payload models.NotificationPayload) (models.Notification, error) {
	if userID == "" {
		return models.Notification{}, ErrMissingUserID
	}
	n := models.Notification{UserID: userID, CreatedAt: s.now(), Payload: payload}
	row, err := models.EncodeNotification(n)
	if err != nil {
		return models.Notification{}, err
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return models.Notification{}, err
	}
	n.ID = row.ID
	s.publisher.Publish(userID, EventNotification, n)
	return n, nil
}

// NotifyShortages stores one notification per shortage alert. Failures are
// logged and skipped.
func (s *NotificationService) NotifyShortages(ctx context.Context, userID string, alerts []models.ShortageAlert) int {
	sent := 0
	for _, a := range alerts {
		if _, err := s.Notify(ctx, userID, a); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("product", a.ProductName).Msg("failed to store shortage notification")
			continue
		}
		sent++
	}
	return sent
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(id) == "" {
		return ErrNotificationNotFound
	}
	err := s.repo.MarkRead(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
