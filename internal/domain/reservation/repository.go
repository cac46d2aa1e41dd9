package reservation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
)

// Repository is the reservation repository interface.
type Repository interface {
	// Create persists a new reservation (transaction required). Returns
	// ErrConfirmationCodeTaken when the confirmation code collides.
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetByID returns the reservation with the given id.
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByConfirmationCode returns the reservation with the given code.
	GetByConfirmationCode(ctx context.Context, code string) (*Reservation, error)

	// ListByOwnerID returns a user's reservations, newest first.
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*Reservation, error)

	// MarkCancelled atomically transitions confirmed -> cancelled
	// (transaction required). Returns false when the reservation was not
	// in the confirmed state, so concurrent double-cancels release
	// nothing twice.
	MarkCancelled(ctx context.Context, tx transaction.Tx, id string, cancelledAt time.Time) (bool, error)

	// ConfirmedTotalsByOrganizer returns the number of confirmed
	// reservations and their revenue across an organizer's events.
	ConfirmedTotalsByOrganizer(ctx context.Context, organizerID string) (int64, decimal.Decimal, error)
}
