package transactions

import (
	"context"

	txsvc "bartr-backend/internal/application/transactions"
	"bartr-backend/internal/middleware"
	"bartr-backend/internal/models"
	"bartr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service   *txsvc.Service
	Projector *txsvc.Projector
}

// statusMap translates engine sentinels to HTTP status codes. Anything not
// listed is a 500.
var statusMap = map[error]int{
	txsvc.ErrInvalidTransactionType:   400,
	txsvc.ErrInvalidRequestedStatus:   400,
	txsvc.ErrRequestedProductRequired: 400,
	txsvc.ErrOfferedProductRequired:   400,
	txsvc.ErrNegativePrice:            400,
	txsvc.ErrNoSaleAmount:             400,
	txsvc.ErrNotBarterEligible:        400,
	txsvc.ErrOfferedUnavailable:       400,
	txsvc.ErrHybridAmountRequired:     400,
	txsvc.ErrTransactionClosed:        400,
	txsvc.ErrAccessDenied:             403,
	txsvc.ErrSelfTrade:                403,
	txsvc.ErrSaleNotAllowed:           403,
	txsvc.ErrNotProductOwner:          403,
	txsvc.ErrNotParticipant:           403,
	txsvc.ErrInvalidTransition:        403,
	txsvc.ErrCounterNotAllowed:        403,
	txsvc.ErrRequestedProductNotFound: 404,
	txsvc.ErrOfferedProductNotFound:   404,
	txsvc.ErrRecipientNotFound:        404,
	txsvc.ErrTransactionNotFound:      404,
	txsvc.ErrProductConflict:          409,
	txsvc.ErrDuplicateNegotiation:     409,
}

func fail(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

type initiateRequest struct {
	TransactionType    string `json:"transactionType"`
	ProductOfferedID   string `json:"productOfferedId"`
	ProductRequestedID string `json:"productRequestedId"`
	PriceOffered       int64  `json:"priceOffered"`
	PriceRequested     int64  `json:"priceRequested"`
}

// Initiate POST /api/v1/transactions
func (h *Handlers) Initiate(c *fiber.Ctx) error {
	var req initiateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	requestedID, err := uuid.Parse(req.ProductRequestedID)
	if err != nil {
		return response.Error(c, "Invalid or missing product requested ID", 400, nil)
	}
	var offeredID *uuid.UUID
	if req.ProductOfferedID != "" {
		id, err := uuid.Parse(req.ProductOfferedID)
		if err != nil {
			return response.Error(c, "Invalid or missing product offered ID", 400, nil)
		}
		offeredID = &id
	}

	txn, err := h.Service.Initiate(c.Context(), txsvc.InitiateInput{
		TransactionType:    req.TransactionType,
		ProductOfferedID:   offeredID,
		ProductRequestedID: requestedID,
		PriceOffered:       req.PriceOffered,
		PriceRequested:     req.PriceRequested,
		InitiatorID:        middleware.UserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Transaction initiated successfully", txn, nil)
}

// List GET /api/v1/transactions — both roles by default, ?role=initiator or
// ?role=recipient to filter.
func (h *Handlers) List(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var (
		views interface{}
		err   error
	)
	switch c.Query("role") {
	case "initiator":
		views, err = h.Projector.ListAsInitiator(c.Context(), userID)
	case "recipient":
		views, err = h.Projector.ListAsRecipient(c.Context(), userID)
	case "":
		views, err = h.Projector.ListForUser(c.Context(), userID)
	default:
		return response.Error(c, "Invalid role filter", 400, nil)
	}
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Transactions retrieved successfully", views, nil)
}

// ProductTransactions GET /api/v1/transactions/product/:productId
func (h *Handlers) ProductTransactions(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return response.Error(c, "Invalid or missing product ID", 400, nil)
	}
	views, err := h.Projector.ProductTransactions(c.Context(), productID, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Transactions retrieved successfully", views, nil)
}

// Details GET /api/v1/transactions/:transactionId
func (h *Handlers) Details(c *fiber.Ctx) error {
	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return response.Error(c, "Invalid or missing transaction ID", 400, nil)
	}
	detail, err := h.Projector.Details(c.Context(), transactionID, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Transaction retrieved successfully", detail, nil)
}

type updateRequest struct {
	PriceOffered   int64  `json:"priceOffered"`
	PriceRequested int64  `json:"priceRequested"`
	OrderStatus    string `json:"orderStatus"`
}

// UpdateAsInitiator PATCH /api/v1/transactions/initiate/:transactionId
func (h *Handlers) UpdateAsInitiator(c *fiber.Ctx) error {
	return h.update(c, h.Service.UpdateAsInitiator)
}

// UpdateAsRecipient PATCH /api/v1/transactions/recipient/:transactionId
func (h *Handlers) UpdateAsRecipient(c *fiber.Ctx) error {
	return h.update(c, h.Service.UpdateAsRecipient)
}

func (h *Handlers) update(c *fiber.Ctx, apply func(ctx context.Context, in txsvc.UpdateInput) (*models.Transaction, error)) error {
	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return response.Error(c, "Invalid or missing transaction ID", 400, nil)
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if req.OrderStatus == "" {
		return response.Error(c, "Invalid or missing order status", 400, nil)
	}

	txn, err := apply(c.Context(), txsvc.UpdateInput{
		TransactionID:   transactionID,
		ActorID:         middleware.UserID(c),
		RequestedStatus: txsvc.Status(req.OrderStatus),
		PriceOffered:    req.PriceOffered,
		PriceRequested:  req.PriceRequested,
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Transaction updated successfully", txn, nil)
}
