package orderbook

import "errors"

// Validation errors: rejected before any mutation, no events emitted.
var (
	ErrInvalidPrecision = errors.New("invalid precision")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrGTDExpiryInPast  = errors.New("gtd expiry in past")
	ErrUnknownOrderType = errors.New("unknown order type")
	ErrInvalidPatch     = errors.New("invalid patch")
	ErrDuplicateOrderID = errors.New("duplicate order id")
)

// Semantic rejections: state unchanged, an ORDER_REJECTED event is
// emitted carrying the reason.
var (
	ErrFOKUnfillable      = errors.New("fok unfillable")
	ErrPostOnlyWouldCross = errors.New("post only would cross")
)

// Lookup errors: returned to the caller, no events.
var (
	ErrNotFound = errors.New("order not found")
)

// ErrPoisoned is returned by every operation once an internal invariant
// violation has been detected (§7): the book refuses further mutation
// until externally recovered. This must never occur in practice; its
// existence is a test-suite target, not a normal error path.
var ErrPoisoned = errors.New("order book poisoned: internal invariant violated")
