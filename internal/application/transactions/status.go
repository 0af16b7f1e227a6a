package transactions

// Status is a transaction lifecycle state, or a requested action in an
// update call. "counter" is only ever a requested action and is never
// stored: a counter offer leaves the transaction pending with new prices.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccept   Status = "accept"
	StatusComplete Status = "complete"
	StatusCancel   Status = "cancel"
	StatusCounter  Status = "counter"
)

// Transaction types.
const (
	TypeSale   = "sale"
	TypeBarter = "barter"
	TypeHybrid = "hybrid"
)

// Role is the caller's side of the negotiation.
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleRecipient Role = "recipient"
)

type transitionKey struct {
	from      Status
	role      Role
	requested Status
}

// transitions is the full table of legal (state, role, requested) moves.
// Recipient accepts from pending; either party cancels while pending; once
// accepted, only the recipient may still back out, and either party marks
// the exchange complete. A counter keeps the transaction pending.
var transitions = map[transitionKey]Status{
	{StatusPending, RoleInitiator, StatusCancel}:  StatusCancel,
	{StatusPending, RoleInitiator, StatusCounter}: StatusPending,
	{StatusPending, RoleRecipient, StatusCancel}:  StatusCancel,
	{StatusPending, RoleRecipient, StatusAccept}:  StatusAccept,
	{StatusPending, RoleRecipient, StatusCounter}: StatusPending,
	{StatusAccept, RoleRecipient, StatusCancel}:   StatusCancel,
	{StatusAccept, RoleInitiator, StatusComplete}: StatusComplete,
	{StatusAccept, RoleRecipient, StatusComplete}: StatusComplete,
}

// NextStatus returns the state a legal move leads to. ok is false for any
// move not in the table, including every move out of a terminal state.
func NextStatus(from Status, role Role, requested Status) (Status, bool) {
	next, ok := transitions[transitionKey{from, role, requested}]
	return next, ok
}

// IsTerminal reports whether no further transitions are accepted.
func IsTerminal(s Status) bool {
	return s == StatusComplete || s == StatusCancel
}

// ValidType reports whether t is a known transaction type.
func ValidType(t string) bool {
	return t == TypeSale || t == TypeBarter || t == TypeHybrid
}

// ValidRequested reports whether s can be asked for in an update call.
func ValidRequested(s Status) bool {
	switch s {
	case StatusAccept, StatusCancel, StatusComplete, StatusCounter:
		return true
	}
	return false
}

// counterAllowed: the initiator may reprice a sale or hybrid; the recipient
// only counters a hybrid (a pure sale offer is accepted or cancelled).
func counterAllowed(txType string, role Role) bool {
	switch role {
	case RoleInitiator:
		return txType == TypeSale || txType == TypeHybrid
	case RoleRecipient:
		return txType == TypeHybrid
	}
	return false
}
