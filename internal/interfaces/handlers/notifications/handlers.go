package notifications

import (
	notifsvc "bartr-backend/internal/application/notifications"
	"bartr-backend/internal/middleware"
	"bartr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// List GET /api/v1/notifications
func (h *Handlers) List(c *fiber.Ctx) error {
	out, err := h.Service.ListForUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notifications retrieved successfully", out, nil)
}

// MarkRead PATCH /api/v1/notifications/:notificationId/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	notificationID, err := uuid.Parse(c.Params("notificationId"))
	if err != nil {
		return response.Error(c, "Invalid or missing notification ID", 400, nil)
	}
	if err := h.Service.MarkRead(c.Context(), notificationID, middleware.UserID(c)); err != nil {
		if err == notifsvc.ErrNotificationNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Notification marked as read", nil, nil)
}
