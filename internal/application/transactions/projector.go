package transactions

import (
	"context"
	"time"

	"bartr-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Projector builds viewer-oriented read models over transactions joined
// with product and user snapshots. Orientation invariant: the product shown
// in a list row is the counterpart's side of the deal (for a sale it is the
// item being bought/sold), and price_offered always means what the viewer
// is giving.
type Projector struct {
	DB *gorm.DB
}

type ProductSnapshot struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	Condition string    `json:"condition"`
	Category  string    `json:"category"`
	IsBarter  bool      `json:"is_barter"`
	Price     int64     `json:"price"`
}

type UserSnapshot struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
}

// TransactionView is one list row from a specific viewer's perspective.
type TransactionView struct {
	TransactionID   uuid.UUID        `json:"transaction_id"`
	TransactionType string           `json:"transaction_type"`
	OrderStatus     string           `json:"order_status"`
	Role            Role             `json:"role"`
	Product         *ProductSnapshot `json:"product"`
	Counterpart     *UserSnapshot    `json:"counterpart"`
	PriceOffered    int64            `json:"price_offered"`
	PriceRequested  int64            `json:"price_requested"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// TransactionDetail is the full bilateral record.
type TransactionDetail struct {
	TransactionID    uuid.UUID        `json:"transaction_id"`
	TransactionType  string           `json:"transaction_type"`
	OrderStatus      string           `json:"order_status"`
	ProductOffered   *ProductSnapshot `json:"product_offered"`
	ProductRequested *ProductSnapshot `json:"product_requested"`
	Initiator        *UserSnapshot    `json:"initiator"`
	Recipient        *UserSnapshot    `json:"recipient"`
	PriceOffered     int64            `json:"price_offered"`
	PriceRequested   int64            `json:"price_requested"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ListForUser returns every transaction where the user is a party, newest
// first, oriented to that user.
func (p *Projector) ListForUser(ctx context.Context, userID uuid.UUID) ([]TransactionView, error) {
	var txns []models.Transaction
	if err := p.DB.WithContext(ctx).
		Where("initiator_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return p.project(ctx, txns, userID)
}

// ListAsInitiator returns the transactions the user started.
func (p *Projector) ListAsInitiator(ctx context.Context, userID uuid.UUID) ([]TransactionView, error) {
	var txns []models.Transaction
	if err := p.DB.WithContext(ctx).
		Where("initiator_id = ?", userID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return p.project(ctx, txns, userID)
}

// ListAsRecipient returns the transactions aimed at the user's products.
func (p *Projector) ListAsRecipient(ctx context.Context, userID uuid.UUID) ([]TransactionView, error) {
	var txns []models.Transaction
	if err := p.DB.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return p.project(ctx, txns, userID)
}

// ProductTransactions returns every transaction touching the product from
// either side, any status, oriented to the requesting viewer.
func (p *Projector) ProductTransactions(ctx context.Context, productID, viewerID uuid.UUID) ([]TransactionView, error) {
	if productID == uuid.Nil {
		return nil, ErrRequestedProductRequired
	}
	var txns []models.Transaction
	if err := p.DB.WithContext(ctx).
		Where("product_offered_id = ? OR product_requested_id = ?", productID, productID).
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return p.project(ctx, txns, viewerID)
}

// Details returns the full bilateral record. Participants always pass the
// access check; anyone else is allowed only when no block relation exists
// with either party.
func (p *Projector) Details(ctx context.Context, transactionID, viewerID uuid.UUID) (*TransactionDetail, error) {
	if transactionID == uuid.Nil {
		return nil, ErrTransactionNotFound
	}
	var txn models.Transaction
	if err := p.DB.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&txn).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if viewerID != txn.InitiatorID && viewerID != txn.RecipientID {
		for _, party := range []uuid.UUID{txn.InitiatorID, txn.RecipientID} {
			blocked, err := blockedEither(p.DB.WithContext(ctx), viewerID, party)
			if err != nil {
				return nil, err
			}
			if blocked {
				return nil, ErrNotParticipant
			}
		}
	}

	products, users, err := p.snapshots(ctx, []models.Transaction{txn})
	if err != nil {
		return nil, err
	}

	detail := &TransactionDetail{
		TransactionID:    txn.TransactionID,
		TransactionType:  txn.TransactionType,
		OrderStatus:      txn.OrderStatus,
		ProductRequested: products[txn.ProductRequestedID],
		Initiator:        users[txn.InitiatorID],
		Recipient:        users[txn.RecipientID],
		PriceOffered:     txn.PriceOffered,
		PriceRequested:   txn.PriceRequested,
		CreatedAt:        txn.CreatedAt,
	}
	if txn.ProductOfferedID != nil {
		detail.ProductOffered = products[*txn.ProductOfferedID]
	}
	return detail, nil
}

// project turns raw rows into viewer-oriented views with batch-loaded
// snapshots.
func (p *Projector) project(ctx context.Context, txns []models.Transaction, viewerID uuid.UUID) ([]TransactionView, error) {
	products, users, err := p.snapshots(ctx, txns)
	if err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(txns))
	for _, txn := range txns {
		role := RoleInitiator
		if viewerID == txn.RecipientID {
			role = RoleRecipient
		}
		counterpartID := txn.RecipientID
		if role == RoleRecipient {
			counterpartID = txn.InitiatorID
		}

		// The requested product belongs to the recipient, the offered one
		// to the initiator. The row shows the counterpart's product; a sale
		// has only the requested product, so both sides see that.
		productID := txn.ProductRequestedID
		if role == RoleRecipient && txn.ProductOfferedID != nil {
			productID = *txn.ProductOfferedID
		}

		priceOffered, priceRequested := txn.PriceOffered, txn.PriceRequested
		if role == RoleRecipient {
			priceOffered, priceRequested = priceRequested, priceOffered
		}

		views = append(views, TransactionView{
			TransactionID:   txn.TransactionID,
			TransactionType: txn.TransactionType,
			OrderStatus:     txn.OrderStatus,
			Role:            role,
			Product:         products[productID],
			Counterpart:     users[counterpartID],
			PriceOffered:    priceOffered,
			PriceRequested:  priceRequested,
			CreatedAt:       txn.CreatedAt,
		})
	}
	return views, nil
}

// snapshots batch-loads the product and user snapshots referenced by txns.
func (p *Projector) snapshots(ctx context.Context, txns []models.Transaction) (map[uuid.UUID]*ProductSnapshot, map[uuid.UUID]*UserSnapshot, error) {
	productIDSet := map[uuid.UUID]struct{}{}
	userIDSet := map[uuid.UUID]struct{}{}
	for _, txn := range txns {
		productIDSet[txn.ProductRequestedID] = struct{}{}
		if txn.ProductOfferedID != nil {
			productIDSet[*txn.ProductOfferedID] = struct{}{}
		}
		userIDSet[txn.InitiatorID] = struct{}{}
		userIDSet[txn.RecipientID] = struct{}{}
	}

	products := make(map[uuid.UUID]*ProductSnapshot, len(productIDSet))
	if len(productIDSet) > 0 {
		var rows []models.Product
		if err := p.DB.WithContext(ctx).Where("product_id IN ?", keys(productIDSet)).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			products[row.ProductID] = &ProductSnapshot{
				ProductID: row.ProductID,
				Title:     row.Title,
				ImageURL:  row.ImageURL,
				Condition: row.Condition,
				Category:  row.Category,
				IsBarter:  row.IsBarter,
				Price:     row.Price,
			}
		}
	}

	users := make(map[uuid.UUID]*UserSnapshot, len(userIDSet))
	if len(userIDSet) > 0 {
		var rows []models.User
		if err := p.DB.WithContext(ctx).Where("user_id IN ?", keys(userIDSet)).Find(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, row := range rows {
			users[row.UserID] = &UserSnapshot{
				UserID:    row.UserID,
				Name:      row.Name,
				AvatarURL: row.AvatarURL,
			}
		}
	}
	return products, users, nil
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func productIDs(t *models.Transaction) []uuid.UUID {
	ids := []uuid.UUID{t.ProductRequestedID}
	if t.ProductOfferedID != nil {
		ids = append(ids, *t.ProductOfferedID)
	}
	return ids
}
