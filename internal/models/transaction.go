package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is one negotiation between two users over one or two products.
// Prices are integers in currency minor units; at most one of the two price
// columns is positive once a hybrid offer has been netted.
type Transaction struct {
	TransactionID      uuid.UUID  `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`
	TransactionType    string     `gorm:"column:transaction_type;type:varchar(10);not null" json:"transaction_type"`
	ProductOfferedID   *uuid.UUID `gorm:"column:product_offered_id;type:uuid;index" json:"product_offered_id"`
	ProductRequestedID uuid.UUID  `gorm:"column:product_requested_id;type:uuid;not null;index" json:"product_requested_id"`
	PriceOffered       int64      `gorm:"column:price_offered;default:0" json:"price_offered"`
	PriceRequested     int64      `gorm:"column:price_requested;default:0" json:"price_requested"`
	OrderStatus        string     `gorm:"column:order_status;type:varchar(10);default:'pending'" json:"order_status"`
	InitiatorID        uuid.UUID  `gorm:"column:initiator_id;type:uuid;not null;index" json:"initiator_id"`
	RecipientID        uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionID == uuid.Nil {
		t.TransactionID = uuid.New()
	}
	return nil
}
