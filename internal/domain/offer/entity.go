package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer represents a priced, capacity-limited ticket type of one event.
// Capacity fields are only ever mutated through the inventory ledger.
type Offer struct {
	ID                string
	EventID           string
	TicketType        string
	UnitPrice         decimal.Decimal
	InitialCapacity   int
	AvailableCapacity int
	ExpiresAt         time.Time // last calendar day the offer is sellable
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOffer creates a new offer with its full capacity available.
func NewOffer(eventID, ticketType string, unitPrice decimal.Decimal, initialCapacity int, expiresAt time.Time) *Offer {
	now := time.Now()
	return &Offer{
		EventID:           eventID,
		TicketType:        ticketType,
		UnitPrice:         unitPrice,
		InitialCapacity:   initialCapacity,
		AvailableCapacity: initialCapacity,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Sold returns the number of seats sold so far.
func (o *Offer) Sold() int {
	return o.InitialCapacity - o.AvailableCapacity
}

// IsExpired reports whether the offer can no longer be sold at the given
// instant. The expiration day itself is still sellable.
func (o *Offer) IsExpired(now time.Time) bool {
	if o.ExpiresAt.IsZero() {
		return false
	}
	y, m, d := o.ExpiresAt.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, 0, o.ExpiresAt.Location())
	return now.After(endOfDay)
}

// Validate checks the offer fields and the capacity invariant.
func (o *Offer) Validate() error {
	if o.EventID == "" {
		return ErrEventIDRequired
	}
	if o.TicketType == "" {
		return ErrTicketTypeRequired
	}
	if o.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	if o.InitialCapacity < 0 {
		return ErrInvalidCapacity
	}
	if o.AvailableCapacity < 0 || o.AvailableCapacity > o.InitialCapacity {
		return ErrInvalidCapacity
	}
	return nil
}
