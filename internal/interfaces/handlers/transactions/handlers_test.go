package transactions

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	txsvc "bartr-backend/internal/application/transactions"
	"bartr-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.UserBlock{}, &models.Product{},
		&models.Transaction{}, &models.Notification{},
	))
	svc := &txsvc.Service{DB: db}
	return &Handlers{Service: svc, Projector: &txsvc.Projector{DB: db}}, db
}

func appAs(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": userID.String()})
		return c.Next()
	})
	app.Post("/transactions", h.Initiate)
	app.Get("/transactions", h.List)
	app.Get("/transactions/product/:productId", h.ProductTransactions)
	app.Get("/transactions/:transactionId", h.Details)
	app.Patch("/transactions/initiate/:transactionId", h.UpdateAsInitiator)
	app.Patch("/transactions/recipient/:transactionId", h.UpdateAsRecipient)
	return app
}

func seedPair(t *testing.T, db *gorm.DB) (buyer, seller *models.User, item *models.Product) {
	buyer = &models.User{Name: "Buyer", Email: uuid.New().String() + "@example.com"}
	seller = &models.User{Name: "Seller", Email: uuid.New().String() + "@example.com"}
	require.NoError(t, db.Create(buyer).Error)
	require.NoError(t, db.Create(seller).Error)
	item = &models.Product{
		Title: "Widget", Description: "A widget", Condition: "good",
		Category: "misc", MeetingSpot: "Town square", Price: 500,
		IsAvailable: true, OwnerID: seller.UserID,
	}
	require.NoError(t, db.Create(item).Error)
	return buyer, seller, item
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestInitiateEndpoint_Sale(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, _, item := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	code, out := doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", out["status"])
}

func TestInitiateEndpoint_BadRequestedID(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, _, _ := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	code, _ := doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": "not-a-uuid",
		"priceRequested":     500,
	})
	assert.Equal(t, 400, code)
}

func TestInitiateEndpoint_StatusCodes(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, seller, item := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	// unknown product -> 404
	code, _ := doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": uuid.New().String(),
		"priceRequested":     500,
	})
	assert.Equal(t, 404, code)

	// sale without amount -> 400
	code, _ = doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
	})
	assert.Equal(t, 400, code)

	// own product -> 403
	ownApp := appAs(h, seller.UserID)
	code, _ = doJSON(t, ownApp, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	assert.Equal(t, 403, code)

	// first initiation wins, second suitor -> 409
	code, _ = doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	require.Equal(t, 200, code)

	rival := &models.User{Name: "Rival", Email: uuid.New().String() + "@example.com"}
	require.NoError(t, db.Create(rival).Error)
	rivalApp := appAs(h, rival.UserID)
	code, _ = doJSON(t, rivalApp, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     600,
	})
	assert.Equal(t, 409, code)
}

func TestListEndpoint_RoleFilter(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, seller, item := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	code, _ := doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	require.Equal(t, 200, code)

	code, out := doJSON(t, app, "GET", "/transactions?role=initiator", nil)
	assert.Equal(t, 200, code)
	data, _ := out["data"].([]interface{})
	assert.Len(t, data, 1)

	code, out = doJSON(t, app, "GET", "/transactions?role=recipient", nil)
	assert.Equal(t, 200, code)
	data, _ = out["data"].([]interface{})
	assert.Len(t, data, 0)

	sellerApp := appAs(h, seller.UserID)
	code, out = doJSON(t, sellerApp, "GET", "/transactions", nil)
	assert.Equal(t, 200, code)
	data, _ = out["data"].([]interface{})
	assert.Len(t, data, 1)

	code, _ = doJSON(t, app, "GET", "/transactions?role=owner", nil)
	assert.Equal(t, 400, code)
}

func TestUpdateEndpoints(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, seller, item := seedPair(t, db)
	buyerApp := appAs(h, buyer.UserID)
	sellerApp := appAs(h, seller.UserID)

	code, out := doJSON(t, buyerApp, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	require.Equal(t, 200, code)
	data, _ := out["data"].(map[string]interface{})
	txnID, _ := data["transaction_id"].(string)
	require.NotEmpty(t, txnID)

	// missing status -> 400
	code, _ = doJSON(t, sellerApp, "PATCH", "/transactions/recipient/"+txnID, map[string]interface{}{})
	assert.Equal(t, 400, code)

	// recipient accepts
	code, out = doJSON(t, sellerApp, "PATCH", "/transactions/recipient/"+txnID, map[string]interface{}{
		"orderStatus": "accept",
	})
	assert.Equal(t, 200, code)
	data, _ = out["data"].(map[string]interface{})
	assert.Equal(t, "accept", data["order_status"])

	// buyer on the recipient endpoint -> 403
	code, _ = doJSON(t, buyerApp, "PATCH", "/transactions/recipient/"+txnID, map[string]interface{}{
		"orderStatus": "complete",
	})
	assert.Equal(t, 403, code)

	// buyer completes
	code, out = doJSON(t, buyerApp, "PATCH", "/transactions/initiate/"+txnID, map[string]interface{}{
		"orderStatus": "complete",
	})
	assert.Equal(t, 200, code)
	data, _ = out["data"].(map[string]interface{})
	assert.Equal(t, "complete", data["order_status"])

	// closed -> 400
	code, _ = doJSON(t, buyerApp, "PATCH", "/transactions/initiate/"+txnID, map[string]interface{}{
		"orderStatus": "cancel",
	})
	assert.Equal(t, 400, code)
}

func TestDetailsEndpoint(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, _, item := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	code, out := doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	require.Equal(t, 200, code)
	data, _ := out["data"].(map[string]interface{})
	txnID, _ := data["transaction_id"].(string)

	code, out = doJSON(t, app, "GET", "/transactions/"+txnID, nil)
	assert.Equal(t, 200, code)
	data, _ = out["data"].(map[string]interface{})
	assert.Equal(t, txnID, data["transaction_id"])

	code, _ = doJSON(t, app, "GET", "/transactions/"+uuid.New().String(), nil)
	assert.Equal(t, 404, code)

	code, _ = doJSON(t, app, "GET", "/transactions/not-a-uuid", nil)
	assert.Equal(t, 400, code)
}

func TestProductTransactionsEndpoint(t *testing.T) {
	h, db := setupHandlers(t)
	buyer, _, item := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	code, _ := doJSON(t, app, "POST", "/transactions", map[string]interface{}{
		"transactionType":    "sale",
		"productRequestedId": item.ProductID.String(),
		"priceRequested":     500,
	})
	require.Equal(t, 200, code)

	code, out := doJSON(t, app, "GET", "/transactions/product/"+item.ProductID.String(), nil)
	assert.Equal(t, 200, code)
	data, _ := out["data"].([]interface{})
	assert.Len(t, data, 1)
}
