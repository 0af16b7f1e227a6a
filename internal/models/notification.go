package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a fire-and-forget record emitted on transaction state
// changes. EventData carries the transition payload as JSON for the client.
type Notification struct {
	NotificationID   uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TransactionID    *uuid.UUID     `gorm:"column:transaction_id;type:uuid" json:"transaction_id"`
	NotificationType string         `gorm:"column:notification_type;type:varchar(20);not null" json:"notification_type"`
	Content          string         `gorm:"column:content;not null" json:"content"`
	IsRead           bool           `gorm:"column:is_read;default:false" json:"is_read"`
	EventData        datatypes.JSON `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
