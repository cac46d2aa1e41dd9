package offer

import "errors"

// Offer domain errors.
var (
	ErrOfferNotFound        = errors.New("offer not found")
	ErrInsufficientCapacity = errors.New("not enough seats available")
	ErrBelowSoldFloor       = errors.New("initial capacity cannot drop below seats already sold")
	ErrEventIDRequired      = errors.New("event id is required")
	ErrTicketTypeRequired   = errors.New("ticket type is required")
	ErrNegativeUnitPrice    = errors.New("unit price must not be negative")
	ErrInvalidCapacity      = errors.New("capacity must satisfy 0 <= available <= initial")
)
