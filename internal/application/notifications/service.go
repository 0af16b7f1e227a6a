package notifications

import (
	"context"
	"encoding/json"
	"errors"

	"bartr-backend/internal/application/transactions"
	"bartr-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("Notification not found")

// Service is the notification sink. Emit is fire-and-forget: a failed
// insert is logged and swallowed so it can never fail the state transition
// that produced it.
type Service struct {
	DB *gorm.DB
}

// Emit implements transactions.Notifier.
func (s *Service) Emit(ctx context.Context, n transactions.Notice) {
	payload, _ := json.Marshal(n.Data)
	txnID := n.TransactionID
	record := models.Notification{
		UserID:           n.UserID,
		TransactionID:    &txnID,
		NotificationType: "transaction",
		Content:          n.Content,
		EventData:        datatypes.JSON(payload),
	}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		log.Warn().Err(err).
			Str("user_id", n.UserID.String()).
			Str("transaction_id", n.TransactionID.String()).
			Msg("notification emit failed")
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
