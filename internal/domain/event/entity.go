package event

import "time"

// Status represents the publication state of an event.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Event represents an event entity.
type Event struct {
	ID          string
	Title       string
	Description string
	Venue       string
	ImageURL    string
	Date        time.Time // calendar day of the event
	StartTime   time.Time // clock time on Date; the date part is ignored
	Status      Status
	ViewCount   int
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent creates a new draft event.
func NewEvent(title, description, venue, imageURL, organizerID string, date, startTime time.Time) *Event {
	now := time.Now()
	return &Event{
		Title:       title,
		Description: description,
		Venue:       venue,
		ImageURL:    imageURL,
		Date:        date,
		StartTime:   startTime,
		Status:      StatusDraft,
		ViewCount:   0,
		OrganizerID: organizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsPublished reports whether the event is visible to the public.
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// Publish makes the event publicly visible.
func (e *Event) Publish() {
	e.Status = StatusPublished
	e.UpdatedAt = time.Now()
}

// StartInstant combines the event date and the start clock time into a
// single instant. The cancellation window is computed from it.
func (e *Event) StartInstant() time.Time {
	return time.Date(
		e.Date.Year(), e.Date.Month(), e.Date.Day(),
		e.StartTime.Hour(), e.StartTime.Minute(), e.StartTime.Second(), 0,
		e.Date.Location(),
	)
}

// IsOwnedBy reports whether the given organizer owns the event.
func (e *Event) IsOwnedBy(organizerID string) bool {
	return e.OrganizerID == organizerID
}

// Validate checks the event fields.
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if e.Venue == "" {
		return ErrVenueRequired
	}
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	if e.OrganizerID == "" {
		return ErrOrganizerRequired
	}
	return nil
}
