package transactions

import "errors"

var (
	ErrInvalidTransactionType   = errors.New("Invalid transaction type")
	ErrInvalidRequestedStatus   = errors.New("Invalid or missing order status")
	ErrRequestedProductRequired = errors.New("Invalid or missing product requested ID")
	ErrRequestedProductNotFound = errors.New("Requested product not found")
	ErrOfferedProductRequired   = errors.New("Invalid or missing product offered ID")
	ErrOfferedProductNotFound   = errors.New("Offered product not found")
	ErrRecipientNotFound        = errors.New("Recipient not found")
	ErrAccessDenied             = errors.New("Access denied")
	ErrSelfTrade                = errors.New("Cannot initiate transaction with own product")
	ErrProductConflict          = errors.New("Another transaction in progress")
	ErrDuplicateNegotiation     = errors.New("Transaction initiation conflict")
	ErrNegativePrice            = errors.New("Price cannot be negative")
	ErrNoSaleAmount             = errors.New("No amount provided for sale")
	ErrSaleNotAllowed           = errors.New("Requested product is barter only")
	ErrNotProductOwner          = errors.New("Offered product does not belong to you")
	ErrOfferedUnavailable       = errors.New("Offered product is not available")
	ErrNotBarterEligible        = errors.New("Offered product is not open to barter")
	ErrHybridAmountRequired     = errors.New("Enter amount to initiate hybrid exchange")
	ErrTransactionNotFound      = errors.New("Transaction not found")
	ErrNotParticipant           = errors.New("Access forbidden")
	ErrTransactionClosed        = errors.New("Transaction already closed")
	ErrInvalidTransition        = errors.New("Invalid status change")
	ErrCounterNotAllowed        = errors.New("Counter offer not allowed")
)
