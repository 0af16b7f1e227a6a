package middleware

import (
	"net/http/httptest"
	"testing"

	"bartr-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupActiveApp(t *testing.T, user *models.User) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	if user != nil {
		require.NoError(t, db.Create(user).Error)
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user", map[string]interface{}{"user_id": user.UserID.String()})
		}
		return c.Next()
	})
	app.Use(RequireAuth(), RequireActive(db))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(200) })
	return app
}

func TestRequireActive_NoSession(t *testing.T) {
	app := setupActiveApp(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireActive_Banned(t *testing.T) {
	app := setupActiveApp(t, &models.User{
		UserID: uuid.New(), Name: "Banned", Email: "b@example.com",
		IsVerified: true, IsBanned: true,
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRequireActive_Unverified(t *testing.T) {
	app := setupActiveApp(t, &models.User{
		UserID: uuid.New(), Name: "Fresh", Email: "f@example.com",
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRequireActive_Verified(t *testing.T) {
	app := setupActiveApp(t, &models.User{
		UserID: uuid.New(), Name: "Active", Email: "a@example.com",
		IsVerified: true,
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
