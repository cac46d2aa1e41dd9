package event

import "errors"

// Event domain errors.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotPublished = errors.New("event is not published")
	ErrForbidden         = errors.New("event does not belong to this organizer")
	ErrTitleRequired     = errors.New("title is required")
	ErrVenueRequired     = errors.New("venue is required")
	ErrDateRequired      = errors.New("event date is required")
	ErrOrganizerRequired = errors.New("organizer is required")
)
