package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/reservation"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
)

// StatsService maintains the per-event, per-day rolling counters. It is
// purely derived telemetry, never the source of truth for money or
// inventory.
type StatsService struct {
	statsRepo       stats.Repository
	eventRepo       event.Repository
	reservationRepo reservation.Repository
}

func NewStatsService(sr stats.Repository, er event.Repository, rr reservation.Repository) *StatsService {
	return &StatsService{statsRepo: sr, eventRepo: er, reservationRepo: rr}
}

// RecordView bumps today's view counter for an event, creating the row
// lazily.
func (s *StatsService) RecordView(ctx context.Context, eventID string) error {
	return s.statsRepo.IncrementView(ctx, eventID, stats.DateOf(time.Now()))
}

// RecordConfirmedSale attributes a confirmed sale to today's row.
func (s *StatsService) RecordConfirmedSale(ctx context.Context, eventID string, amount decimal.Decimal) error {
	return s.statsRepo.AddSale(ctx, eventID, stats.DateOf(time.Now()), amount)
}

// RecordCancellation attributes a cancellation to today's row, even when
// the original sale happened on an earlier day. Counters are floored at
// zero; a missing row is a no-op.
func (s *StatsService) RecordCancellation(ctx context.Context, eventID string, amount decimal.Decimal) error {
	return s.statsRepo.SubtractSale(ctx, eventID, stats.DateOf(time.Now()), amount)
}

// EventStats returns the daily rows of one of the organizer's events
// between from and to inclusive.
func (s *StatsService) EventStats(ctx context.Context, organizerID, eventID string, from, to time.Time) ([]*stats.DailyStat, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsOwnedBy(organizerID) {
		return nil, event.ErrForbidden
	}
	return s.statsRepo.ListByEvent(ctx, eventID, stats.DateOf(from), stats.DateOf(to))
}

// Overview aggregates an organizer's dashboard numbers.
type Overview struct {
	TotalViews        int64
	TotalReservations int64
	Revenue           decimal.Decimal
	ActiveEvents      int64
	ConversionRate    float64
}

// Overview sums lifetime views across the organizer's events and the
// confirmed reservation totals from the ledger.
func (s *StatsService) Overview(ctx context.Context, organizerID string) (*Overview, error) {
	events, err := s.eventRepo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("listing organizer events: %w", err)
	}

	var totalViews, activeEvents int64
	for _, ev := range events {
		totalViews += int64(ev.ViewCount)
		if ev.IsPublished() {
			activeEvents++
		}
	}

	count, revenue, err := s.reservationRepo.ConfirmedTotalsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("summing confirmed reservations: %w", err)
	}

	conversion := 0.0
	if totalViews > 0 {
		conversion = float64(count) / float64(totalViews)
	}

	return &Overview{
		TotalViews:        totalViews,
		TotalReservations: count,
		Revenue:           revenue,
		ActiveEvents:      activeEvents,
		ConversionRate:    conversion,
	}, nil
}
