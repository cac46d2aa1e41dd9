package reservation

import "errors"

// Reservation domain errors.
var (
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrForbidden                = errors.New("reservation does not belong to this user")
	ErrAlreadyCancelled         = errors.New("reservation is already cancelled")
	ErrInvalidTransition        = errors.New("invalid reservation status transition")
	ErrCancellationWindowClosed = errors.New("cancellation is not allowed less than 24 hours before the event")
	ErrInvalidSeatCount         = errors.New("seat count must be at least 1")
	ErrConfirmationCodeTaken    = errors.New("confirmation code already exists")
	ErrConfirmationCodeRequired = errors.New("confirmation code is required")
	ErrOwnerIDRequired          = errors.New("owner id is required")
	ErrOfferIDRequired          = errors.New("offer id is required")
)
