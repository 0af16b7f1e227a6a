package products

import (
	"context"
	"errors"

	"bartr-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("Product not found")
	ErrNotOwner        = errors.New("Access forbidden")
	ErrMissingFields   = errors.New("Missing required product fields")
	ErrInvalidPrice    = errors.New("Invalid price")
)

// Cleaner is the engine hook invoked before a product leaves the catalog,
// so no active negotiation keeps referencing it.
type Cleaner interface {
	CancelAllForProduct(ctx context.Context, productID uuid.UUID) error
}

// Service is the product registry: catalog CRUD plus the availability flag
// the transaction engine reads and writes.
type Service struct {
	DB      *gorm.DB
	Cleaner Cleaner
}

type CreateInput struct {
	Title       string
	Description string
	ImageURL    string
	Condition   string
	Category    string
	IsBarter    bool
	Price       int64
	MeetingSpot string
	OwnerID     uuid.UUID
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Product, error) {
	if in.Title == "" || in.Description == "" || in.Condition == "" || in.Category == "" || in.MeetingSpot == "" {
		return nil, ErrMissingFields
	}
	if in.Price < 0 {
		return nil, ErrInvalidPrice
	}
	product := &models.Product{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Condition:   in.Condition,
		Category:    in.Category,
		IsBarter:    in.IsBarter,
		Price:       in.Price,
		MeetingSpot: in.MeetingSpot,
		IsAvailable: true,
		OwnerID:     in.OwnerID,
	}
	if err := s.DB.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) GetByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.DB.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListAvailable returns the open catalog, newest first.
func (s *Service) ListAvailable(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := s.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListForOwner returns a user's own products, newest first.
func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetAvailability flips the availability flag; only the owner may do it.
func (s *Service) SetAvailability(ctx context.Context, productID, ownerID uuid.UUID, available bool) (*models.Product, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if !available && s.Cleaner != nil {
		if err := s.Cleaner.CancelAllForProduct(ctx, productID); err != nil {
			return nil, err
		}
	}
	if err := s.DB.WithContext(ctx).Model(product).Update("is_available", available).Error; err != nil {
		return nil, err
	}
	product.IsAvailable = available
	return product, nil
}

// Delete removes a product after cancelling every negotiation touching it.
func (s *Service) Delete(ctx context.Context, productID, ownerID uuid.UUID) error {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.OwnerID != ownerID {
		return ErrNotOwner
	}
	if s.Cleaner != nil {
		if err := s.Cleaner.CancelAllForProduct(ctx, productID); err != nil {
			return err
		}
	}
	return s.DB.WithContext(ctx).Delete(product).Error
}
