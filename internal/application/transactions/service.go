package transactions

import (
	"context"

	"bartr-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice is the payload handed to the notification sink on a state change.
type Notice struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	Content       string
	Data          map[string]interface{}
}

// Notifier delivers notices best-effort. Implementations must not fail the
// calling operation; delivery problems are theirs to log.
type Notifier interface {
	Emit(ctx context.Context, n Notice)
}

// Service is the negotiation engine. Every mutation runs its conflict
// checks and its write inside one DB transaction so the read-then-write
// exclusivity check is a single-writer critical section.
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

type InitiateInput struct {
	TransactionType    string
	ProductOfferedID   *uuid.UUID
	ProductRequestedID uuid.UUID
	PriceOffered       int64
	PriceRequested     int64
	InitiatorID        uuid.UUID
}

// Initiate creates a pending transaction after the full precondition chain:
// requested product exists, its owner is reachable (not banned, no block
// either way) and the product available, no self-trade, no other active
// transaction holds either product, no duplicate negotiation by the same
// initiator, and the type-specific price/product rules hold.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*models.Transaction, error) {
	if !ValidType(in.TransactionType) {
		return nil, ErrInvalidTransactionType
	}
	if in.ProductRequestedID == uuid.Nil {
		return nil, ErrRequestedProductRequired
	}
	if in.PriceOffered < 0 || in.PriceRequested < 0 {
		return nil, ErrNegativePrice
	}

	var created models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var requested models.Product
		if err := tx.Where("product_id = ?", in.ProductRequestedID).First(&requested).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRequestedProductNotFound
			}
			return err
		}

		var owner models.User
		if err := tx.Where("user_id = ?", requested.OwnerID).First(&owner).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRecipientNotFound
			}
			return err
		}
		if owner.IsBanned {
			return ErrAccessDenied
		}
		blocked, err := blockedEither(tx, in.InitiatorID, owner.UserID)
		if err != nil {
			return err
		}
		if blocked || !requested.IsAvailable {
			return ErrAccessDenied
		}

		if requested.OwnerID == in.InitiatorID {
			return ErrSelfTrade
		}

		locked, err := activeConflictExists(tx, in.ProductRequestedID, nil)
		if err != nil {
			return err
		}
		if locked {
			return ErrProductConflict
		}

		var dup int64
		if err := tx.Model(&models.Transaction{}).
			Where("initiator_id = ? AND product_requested_id = ? AND order_status <> ?",
				in.InitiatorID, in.ProductRequestedID, StatusCancel).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateNegotiation
		}

		created = models.Transaction{
			TransactionType:    in.TransactionType,
			ProductRequestedID: in.ProductRequestedID,
			OrderStatus:        string(StatusPending),
			InitiatorID:        in.InitiatorID,
			RecipientID:        requested.OwnerID,
		}

		switch in.TransactionType {
		case TypeSale:
			if in.PriceRequested == 0 {
				return ErrNoSaleAmount
			}
			if requested.IsBarter {
				return ErrSaleNotAllowed
			}
			created.PriceRequested = in.PriceRequested

		case TypeBarter:
			if err := s.attachOfferedProduct(tx, &created, in); err != nil {
				return err
			}

		case TypeHybrid:
			if err := s.attachOfferedProduct(tx, &created, in); err != nil {
				return err
			}
			if in.PriceOffered == 0 && in.PriceRequested == 0 {
				return ErrHybridAmountRequired
			}
			created.PriceOffered, created.PriceRequested = Net(in.PriceOffered, in.PriceRequested)
		}

		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, Notice{
		UserID:        created.RecipientID,
		TransactionID: created.TransactionID,
		Content:       "Transaction requested",
		Data:          map[string]interface{}{"order_status": created.OrderStatus},
	})
	return &created, nil
}

// attachOfferedProduct validates the initiator's own product for barter and
// hybrid deals and repeats the exclusivity check against it.
func (s *Service) attachOfferedProduct(tx *gorm.DB, created *models.Transaction, in InitiateInput) error {
	if in.ProductOfferedID == nil || *in.ProductOfferedID == uuid.Nil {
		return ErrOfferedProductRequired
	}
	var offered models.Product
	if err := tx.Where("product_id = ?", *in.ProductOfferedID).First(&offered).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrOfferedProductNotFound
		}
		return err
	}
	if offered.OwnerID != in.InitiatorID {
		return ErrNotProductOwner
	}
	if !offered.IsAvailable {
		return ErrOfferedUnavailable
	}
	if !offered.IsBarter {
		return ErrNotBarterEligible
	}
	locked, err := activeConflictExists(tx, offered.ProductID, nil)
	if err != nil {
		return err
	}
	if locked {
		return ErrProductConflict
	}
	created.ProductOfferedID = &offered.ProductID
	return nil
}

type UpdateInput struct {
	TransactionID   uuid.UUID
	ActorID         uuid.UUID
	RequestedStatus Status
	PriceOffered    int64
	PriceRequested  int64
}

// UpdateAsInitiator applies an initiator-side transition (cancel or counter).
func (s *Service) UpdateAsInitiator(ctx context.Context, in UpdateInput) (*models.Transaction, error) {
	return s.update(ctx, RoleInitiator, in)
}

// UpdateAsRecipient applies a recipient-side transition
// (accept, cancel, complete or counter).
func (s *Service) UpdateAsRecipient(ctx context.Context, in UpdateInput) (*models.Transaction, error) {
	return s.update(ctx, RoleRecipient, in)
}

// update is the single role-parameterized transition path. Two situations
// force-cancel the transaction instead of merely rejecting the call: the
// counterpart has become blocked/banned since creation, and another active
// transaction holding one of our products (double-booking detected late).
// The force-cancel must commit, so it is signalled through forcedErr and the
// enclosing DB transaction returns nil.
func (s *Service) update(ctx context.Context, role Role, in UpdateInput) (*models.Transaction, error) {
	if !ValidRequested(in.RequestedStatus) {
		return nil, ErrInvalidRequestedStatus
	}
	if in.PriceOffered < 0 || in.PriceRequested < 0 {
		return nil, ErrNegativePrice
	}

	var (
		txn       models.Transaction
		forcedErr error
		notices   []Notice
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", in.TransactionID).First(&txn).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTransactionNotFound
			}
			return err
		}

		actorID, counterpartID := txn.InitiatorID, txn.RecipientID
		if role == RoleRecipient {
			actorID, counterpartID = txn.RecipientID, txn.InitiatorID
		}
		if actorID != in.ActorID {
			return ErrNotParticipant
		}
		if IsTerminal(Status(txn.OrderStatus)) {
			return ErrTransactionClosed
		}

		var counterpart models.User
		if err := tx.Where("user_id = ?", counterpartID).First(&counterpart).Error; err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		blocked, err := blockedEither(tx, actorID, counterpartID)
		if err != nil {
			return err
		}
		if counterpart.IsBanned || blocked {
			forcedErr = ErrNotParticipant
			return s.forceCancel(tx, &txn, counterpartID, &notices)
		}

		for _, productID := range productIDs(&txn) {
			locked, err := activeConflictExists(tx, productID, &txn.TransactionID)
			if err != nil {
				return err
			}
			if locked {
				forcedErr = ErrProductConflict
				return s.forceCancel(tx, &txn, counterpartID, &notices)
			}
		}

		next, ok := NextStatus(Status(txn.OrderStatus), role, in.RequestedStatus)
		if !ok {
			return ErrInvalidTransition
		}

		if in.RequestedStatus == StatusCounter {
			if !counterAllowed(txn.TransactionType, role) {
				return ErrCounterNotAllowed
			}
			switch txn.TransactionType {
			case TypeSale:
				if in.PriceRequested == 0 {
					return ErrNoSaleAmount
				}
				txn.PriceOffered, txn.PriceRequested = 0, in.PriceRequested
			case TypeHybrid:
				if in.PriceOffered == 0 && in.PriceRequested == 0 {
					return ErrHybridAmountRequired
				}
				txn.PriceOffered, txn.PriceRequested = Net(in.PriceOffered, in.PriceRequested)
			}
			if err := tx.Save(&txn).Error; err != nil {
				return err
			}
			notices = append(notices, Notice{
				UserID:        counterpartID,
				TransactionID: txn.TransactionID,
				Content:       "New terms proposed",
				Data: map[string]interface{}{
					"price_offered":   txn.PriceOffered,
					"price_requested": txn.PriceRequested,
				},
			})
			return nil
		}

		txn.OrderStatus = string(next)
		if err := tx.Save(&txn).Error; err != nil {
			return err
		}
		if next == StatusComplete {
			// Product Registry side effect: both goods leave the market.
			for _, productID := range productIDs(&txn) {
				if err := tx.Model(&models.Product{}).
					Where("product_id = ?", productID).
					Update("is_available", false).Error; err != nil {
					return err
				}
			}
		}
		notices = append(notices, Notice{
			UserID:        counterpartID,
			TransactionID: txn.TransactionID,
			Content:       "Transaction " + string(next),
			Data:          map[string]interface{}{"order_status": txn.OrderStatus},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, n := range notices {
		s.emit(ctx, n)
	}
	if forcedErr != nil {
		return nil, forcedErr
	}
	return &txn, nil
}

// forceCancel closes the transaction inside the current DB transaction and
// queues a notice for the counterpart.
func (s *Service) forceCancel(tx *gorm.DB, txn *models.Transaction, counterpartID uuid.UUID, notices *[]Notice) error {
	txn.OrderStatus = string(StatusCancel)
	if err := tx.Save(txn).Error; err != nil {
		return err
	}
	*notices = append(*notices, Notice{
		UserID:        counterpartID,
		TransactionID: txn.TransactionID,
		Content:       "Transaction cancelled",
		Data:          map[string]interface{}{"order_status": txn.OrderStatus},
	})
	return nil
}

// CancelAllForProduct closes every active negotiation touching the product.
// Called by the product module before a product is removed or unlisted.
func (s *Service) CancelAllForProduct(ctx context.Context, productID uuid.UUID) error {
	return s.cancelActive(ctx,
		"(product_offered_id = ? OR product_requested_id = ?)", productID, productID)
}

// CancelAllForUser closes every active negotiation the user is a party to.
// Called by the user module when an account is banned or removed.
func (s *Service) CancelAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.cancelActive(ctx,
		"(initiator_id = ? OR recipient_id = ?)", userID, userID)
}

func (s *Service) cancelActive(ctx context.Context, cond string, args ...interface{}) error {
	var cancelled []models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(cond, args...).
			Where("order_status IN ?", activeStatuses()).
			Find(&cancelled).Error; err != nil {
			return err
		}
		for i := range cancelled {
			cancelled[i].OrderStatus = string(StatusCancel)
			if err := tx.Save(&cancelled[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, txn := range cancelled {
		for _, userID := range []uuid.UUID{txn.InitiatorID, txn.RecipientID} {
			s.emit(ctx, Notice{
				UserID:        userID,
				TransactionID: txn.TransactionID,
				Content:       "Transaction cancelled",
				Data:          map[string]interface{}{"order_status": txn.OrderStatus},
			})
		}
	}
	return nil
}

func (s *Service) emit(ctx context.Context, n Notice) {
	if s.Notifier != nil {
		s.Notifier.Emit(ctx, n)
	}
}

func activeStatuses() []string {
	return []string{string(StatusPending), string(StatusAccept)}
}

// activeConflictExists reports whether any active transaction other than
// excludeID references the product on either side.
func activeConflictExists(tx *gorm.DB, productID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	q := tx.Model(&models.Transaction{}).
		Where("(product_offered_id = ? OR product_requested_id = ?)", productID, productID).
		Where("order_status IN ?", activeStatuses())
	if excludeID != nil {
		q = q.Where("transaction_id <> ?", *excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// blockedEither reports whether either user has blocked the other.
func blockedEither(tx *gorm.DB, a, b uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
