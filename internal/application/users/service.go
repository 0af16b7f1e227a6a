package users

import (
	"context"
	"errors"
	"strings"

	"bartr-backend/internal/models"
	"bartr-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("User not found")
	ErrEmailTaken       = errors.New("Email already registered")
	ErrInvalidEmail     = errors.New("Invalid email address")
	ErrInvalidPassword  = errors.New("Password does not meet requirements")
	ErrInvalidName      = errors.New("Invalid name")
	ErrInvalidPhone     = errors.New("Invalid phone number")
	ErrSelfBlock        = errors.New("Cannot block yourself")
	ErrAlreadyBlocked   = errors.New("User already blocked")
	ErrBlockNotFound    = errors.New("User is not blocked")
)

// Cleaner is the engine hook invoked when an account is banned, so the
// user's active negotiations do not stay open against a dead counterpart.
type Cleaner interface {
	CancelAllForUser(ctx context.Context, userID uuid.UUID) error
}

// Service is the user directory: registration, profile lookup and the
// block/ban state the transaction engine gates on.
type Service struct {
	DB      *gorm.DB
	Cleaner Cleaner
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Bio      string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidName(in.Name) {
		return nil, ErrInvalidName
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrInvalidPassword
	}
	if in.Phone != "" && !validation.IsValidPhone(in.Phone) {
		return nil, ErrInvalidPhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Bio:          in.Bio,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Block adds a block edge from blocker to target.
func (s *Service) Block(ctx context.Context, blockerID, targetID uuid.UUID) error {
	if blockerID == targetID {
		return ErrSelfBlock
	}
	if _, err := s.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.UserBlock{}).
			Where("blocker_id = ? AND blocked_id = ?", blockerID, targetID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyBlocked
		}
		return tx.Create(&models.UserBlock{BlockerID: blockerID, BlockedID: targetID}).Error
	})
}

// Unblock removes the block edge if present.
func (s *Service) Unblock(ctx context.Context, blockerID, targetID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, targetID).
		Delete(&models.UserBlock{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// ListBlocked returns the users blocked by blockerID, skipping banned
// accounts (Express viewAllBlockedUsers filtered those out).
func (s *Service) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.User, error) {
	var out []models.User
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "UserBlocks" ON "UserBlocks".blocked_id = "Users".user_id`).
		Where(`"UserBlocks".blocker_id = ? AND "Users".is_banned = ?`, blockerID, false).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ban flags the account and closes its active negotiations.
func (s *Service) Ban(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Model(user).Update("is_banned", true).Error; err != nil {
		return err
	}
	if s.Cleaner != nil {
		return s.Cleaner.CancelAllForUser(ctx, userID)
	}
	return nil
}

// Verify marks the account as verified (ban/verification gate input).
func (s *Service) Verify(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(user).Update("is_verified", true).Error
}
