package models

import (
	"time"

	"github.com/google/uuid"
)

// UserBlock is one row per block edge (Express stored blockedUsers as an
// array on the user document; relational form keeps the lookup symmetric).
type UserBlock struct {
	BlockerID uuid.UUID `gorm:"column:blocker_id;type:uuid;primaryKey" json:"blocker_id"`
	BlockedID uuid.UUID `gorm:"column:blocked_id;type:uuid;primaryKey" json:"blocked_id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserBlock) TableName() string {
	return "UserBlocks"
}
