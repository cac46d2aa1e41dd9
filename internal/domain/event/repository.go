package event

import (
	"context"
	"time"
)

// Sort orders accepted by Search.
const (
	SortDateAsc  = "date_asc"
	SortDateDesc = "date_desc"
	SortViews    = "views"
)

// SearchFilter narrows a public event search. Zero values mean "no filter".
type SearchFilter struct {
	Query    string
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     string
}

// Repository is the event repository interface.
type Repository interface {
	// Create creates a new event.
	Create(ctx context.Context, event *Event) error

	// GetByID returns the event with the given id.
	GetByID(ctx context.Context, id string) (*Event, error)

	// Search returns published events matching the filter.
	Search(ctx context.Context, filter SearchFilter) ([]*Event, error)

	// ListByOrganizer returns the events owned by an organizer, newest first.
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)

	// Update updates an event.
	Update(ctx context.Context, event *Event) error

	// Delete deletes an event.
	Delete(ctx context.Context, id string) error

	// IncrementViewCount atomically bumps the lifetime view counter.
	IncrementViewCount(ctx context.Context, id string) error
}
