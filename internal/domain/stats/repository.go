package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the daily statistics repository interface. Each mutator
// must be an atomic increment on the (eventID, day) row so that
// concurrent callers never lose updates.
type Repository interface {
	// IncrementView bumps the view counter on the row for the given day,
	// creating the row if absent.
	IncrementView(ctx context.Context, eventID string, day time.Time) error

	// AddSale bumps the reservation counter by one and the revenue by
	// amount on the row for the given day, creating the row if absent.
	AddSale(ctx context.Context, eventID string, day time.Time, amount decimal.Decimal) error

	// SubtractSale decrements the reservation counter by one and the
	// revenue by amount, both floored at zero. A missing row is a no-op.
	SubtractSale(ctx context.Context, eventID string, day time.Time, amount decimal.Decimal) error

	// GetByEventAndDate returns the row for the given day.
	GetByEventAndDate(ctx context.Context, eventID string, day time.Time) (*DailyStat, error)

	// ListByEvent returns the rows of an event between from and to
	// inclusive, oldest first.
	ListByEvent(ctx context.Context, eventID string, from, to time.Time) ([]*DailyStat, error)
}
