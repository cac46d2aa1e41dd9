package offer

import (
	"context"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
)

// Repository is the offer repository interface. The seat-count mutators are
// the single enforcement point of the capacity invariant: each one must be
// an atomic conditional update, never a read-then-write.
type Repository interface {
	// Create creates a new offer.
	Create(ctx context.Context, offer *Offer) error

	// GetByID returns the offer with the given id.
	GetByID(ctx context.Context, id string) (*Offer, error)

	// ListByEventID returns the offers of an event.
	ListByEventID(ctx context.Context, eventID string) ([]*Offer, error)

	// Update updates the ticket type, unit price and expiration date.
	// Capacity fields are ignored; use ResizeCapacity.
	Update(ctx context.Context, offer *Offer) error

	// Delete deletes an offer.
	Delete(ctx context.Context, id string) error

	// ReserveSeats atomically decrements the available capacity by count,
	// failing with ErrInsufficientCapacity when fewer than count seats are
	// available at the moment of the update. Returns the updated snapshot,
	// whose UnitPrice is the price locked into the reservation.
	ReserveSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*Offer, error)

	// ReleaseSeats atomically increments the available capacity by count,
	// clamped so it never exceeds the initial capacity.
	ReleaseSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*Offer, error)

	// ResizeCapacity sets a new initial capacity while preserving the sold
	// count exactly; fails with ErrBelowSoldFloor when newInitial < sold.
	ResizeCapacity(ctx context.Context, offerID string, newInitial int) (*Offer, error)
}
