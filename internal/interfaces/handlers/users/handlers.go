package users

import (
	usersvc "bartr-backend/internal/application/users"
	"bartr-backend/internal/middleware"
	"bartr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *usersvc.Service
}

var statusMap = map[error]int{
	usersvc.ErrSelfBlock:      400,
	usersvc.ErrAlreadyBlocked: 409,
	usersvc.ErrBlockNotFound:  404,
	usersvc.ErrUserNotFound:   404,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// ViewUser GET /api/v1/users/:userId — public profile fields only.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, "Invalid or missing user ID", 400, nil)
	}
	user, err := h.Service.GetByID(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user_id":    user.UserID,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
		"bio":        user.Bio,
		"rating":     user.Rating,
	}, nil)
}

// Block POST /api/v1/users/block/:userId
func (h *Handlers) Block(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, "Invalid or missing user ID", 400, nil)
	}
	if err := h.Service.Block(c.Context(), middleware.UserID(c), targetID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "User blocked successfully", nil, nil)
}

// Unblock DELETE /api/v1/users/block/:userId
func (h *Handlers) Unblock(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return response.Error(c, "Invalid or missing user ID", 400, nil)
	}
	if err := h.Service.Unblock(c.Context(), middleware.UserID(c), targetID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "User unblocked successfully", nil, nil)
}

// ListBlocked GET /api/v1/users/blocked
func (h *Handlers) ListBlocked(c *fiber.Ctx) error {
	blocked, err := h.Service.ListBlocked(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	out := make([]fiber.Map, 0, len(blocked))
	for _, u := range blocked {
		out = append(out, fiber.Map{
			"user_id":    u.UserID,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
		})
	}
	return response.Success(c, "Blocked users retrieved successfully", out, nil)
}
