package middleware

import (
	"bartr-backend/internal/models"
	"bartr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequireActive re-checks the acting account against the directory on every
// request: banned or unverified users cannot trade even with a live session
// (Express checkVerificationAndBan middleware).
func RequireActive(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == uuid.Nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		var user models.User
		if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.Unauthorized(c, "Unauthorized")
			}
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
		if user.IsBanned {
			return response.Forbidden(c, "Forbidden Access. User account has been banned")
		}
		if !user.IsVerified {
			return response.Forbidden(c, "Forbidden Access. User not verified")
		}
		return c.Next()
	}
}
