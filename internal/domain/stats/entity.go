package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyStat is the per-event, per-calendar-day rollup of views,
// reservation count and revenue. It is derived telemetry, never the
// source of truth for money or inventory. One row exists per
// (EventID, Date) pair.
type DailyStat struct {
	ID               string
	EventID          string
	Date             time.Time
	ViewCount        int
	ReservationCount int
	Revenue          decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DateOf normalizes an instant to its calendar day in UTC; stat rows are
// keyed by the result.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
