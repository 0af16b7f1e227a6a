package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User matches the Express Users collection (userModel.js), relationalized.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	AvatarURL    string         `gorm:"column:avatar_url" json:"avatar_url"`
	Bio          string         `gorm:"column:bio" json:"bio"`
	Phone        string         `gorm:"column:phone" json:"phone"`
	Rating       float64        `gorm:"column:rating;default:0" json:"rating"`
	IsVerified   bool           `gorm:"column:is_verified;default:false" json:"is_verified"`
	IsBanned     bool           `gorm:"column:is_banned;default:false" json:"is_banned"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides table name to Users (Express tableName).
func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
