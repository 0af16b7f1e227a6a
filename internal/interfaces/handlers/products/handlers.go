package products

import (
	prodsvc "bartr-backend/internal/application/products"
	"bartr-backend/internal/middleware"
	"bartr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *prodsvc.Service
}

var statusMap = map[error]int{
	prodsvc.ErrMissingFields:   400,
	prodsvc.ErrInvalidPrice:    400,
	prodsvc.ErrNotOwner:        403,
	prodsvc.ErrProductNotFound: 404,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Condition   string `json:"condition"`
	Category    string `json:"category"`
	IsBarter    *bool  `json:"isBarter"`
	Price       int64  `json:"price"`
	MeetingSpot string `json:"meetingSpot"`
}

// Create POST /api/v1/products
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	isBarter := true
	if req.IsBarter != nil {
		isBarter = *req.IsBarter
	}
	product, err := h.Service.Create(c.Context(), prodsvc.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Condition:   req.Condition,
		Category:    req.Category,
		IsBarter:    isBarter,
		Price:       req.Price,
		MeetingSpot: req.MeetingSpot,
		OwnerID:     middleware.UserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Product created successfully", product, nil)
}

// List GET /api/v1/products — open catalog; ?owner=me for own products.
func (h *Handlers) List(c *fiber.Ctx) error {
	if c.Query("owner") == "me" {
		out, err := h.Service.ListForOwner(c.Context(), middleware.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return response.Success(c, "Products retrieved successfully", out, nil)
	}
	out, err := h.Service.ListAvailable(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Products retrieved successfully", out, nil)
}

// GetByID GET /api/v1/products/:productId
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return response.Error(c, "Invalid or missing product ID", 400, nil)
	}
	product, err := h.Service.GetByID(c.Context(), productID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Product retrieved successfully", product, nil)
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

// SetAvailability PATCH /api/v1/products/:productId/availability
func (h *Handlers) SetAvailability(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return response.Error(c, "Invalid or missing product ID", 400, nil)
	}
	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil || req.IsAvailable == nil {
		return response.Error(c, "isAvailable is required", 400, nil)
	}
	product, err := h.Service.SetAvailability(c.Context(), productID, middleware.UserID(c), *req.IsAvailable)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Product updated successfully", product, nil)
}

// Delete DELETE /api/v1/products/:productId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return response.Error(c, "Invalid or missing product ID", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), productID, middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Product deleted successfully", nil, nil)
}
