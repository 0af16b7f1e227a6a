package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product matches the Express Products collection (productModel.js).
type Product struct {
	ProductID   uuid.UUID      `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;not null" json:"description"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url"`
	Condition   string         `gorm:"column:condition;type:varchar(10);not null" json:"condition"`
	Category    string         `gorm:"column:category;not null" json:"category"`
	IsBarter    bool           `gorm:"column:is_barter" json:"is_barter"`
	Price       int64          `gorm:"column:price;default:0" json:"price"`
	MeetingSpot string         `gorm:"column:meeting_spot;not null" json:"meeting_spot"`
	IsAvailable bool           `gorm:"column:is_available;index" json:"is_available"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "Products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == uuid.Nil {
		p.ProductID = uuid.New()
	}
	return nil
}
