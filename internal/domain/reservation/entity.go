package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the reservation state.
type Status string

const (
	// StatusPending exists for future flows; current flows confirm directly.
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// CancellationWindow is the period before the event start during which
// cancellation is no longer allowed.
const CancellationWindow = 24 * time.Hour

// codePrefix is the human-shareable confirmation code prefix.
const codePrefix = "RES-"

// Reservation represents a purchase of seats against one offer.
// Everything except the status transition is immutable after creation.
type Reservation struct {
	ID               string
	ConfirmationCode string
	OwnerID          string
	OfferID          string
	EventID          string
	SeatCount        int
	TotalAmount      decimal.Decimal
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CancelledAt      *time.Time
}

// NewReservation creates a confirmed reservation. The total amount is
// locked in from the unit price captured at reservation time.
func NewReservation(ownerID, offerID, eventID string, seatCount int, unitPrice decimal.Decimal) *Reservation {
	now := time.Now()
	return &Reservation{
		ConfirmationCode: NewConfirmationCode(),
		OwnerID:          ownerID,
		OfferID:          offerID,
		EventID:          eventID,
		SeatCount:        seatCount,
		TotalAmount:      unitPrice.Mul(decimal.NewFromInt(int64(seatCount))),
		Status:           StatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewConfirmationCode generates a human-shareable confirmation code such
// as "RES-1A2B3C4D". Uniqueness is enforced by the persistence layer;
// callers regenerate on collision.
func NewConfirmationCode() string {
	return codePrefix + strings.ToUpper(uuid.New().String()[:8])
}

// IsCancelled reports whether the reservation is terminally cancelled.
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// Cancel transitions the reservation to cancelled. Cancelling twice
// returns ErrAlreadyCancelled so callers can treat it as a no-op; any
// transition from a state other than confirmed is invalid.
func (r *Reservation) Cancel() error {
	if r.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if r.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	return nil
}

// Validate checks the reservation fields.
func (r *Reservation) Validate() error {
	if r.OwnerID == "" {
		return ErrOwnerIDRequired
	}
	if r.OfferID == "" {
		return ErrOfferIDRequired
	}
	if r.SeatCount < 1 {
		return ErrInvalidSeatCount
	}
	if r.ConfirmationCode == "" {
		return ErrConfirmationCodeRequired
	}
	return nil
}
