package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/reservation"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
)

type statsFixture struct {
	statsRepo    *fakeStatsRepo
	events       *fakeEventRepo
	reservations *fakeReservationRepo
	svc          *StatsService
}

func newStatsFixture() *statsFixture {
	f := &statsFixture{
		statsRepo:    newFakeStatsRepo(),
		events:       newFakeEventRepo(),
		reservations: newFakeReservationRepo(),
	}
	f.svc = NewStatsService(f.statsRepo, f.events, f.reservations)
	return f
}

func (f *statsFixture) seedEvent(t *testing.T, organizerID string, published bool, views int) *event.Event {
	t.Helper()
	ev := event.NewEvent("Concert", "", "Salle A", "", organizerID, time.Now().AddDate(0, 1, 0), time.Now())
	if published {
		ev.Publish()
	}
	ev.ViewCount = views
	require.NoError(t, f.events.Create(context.Background(), ev))
	f.reservations.eventOwners[ev.ID] = organizerID
	return ev
}

func TestStatsService_RecordView(t *testing.T) {
	ctx := context.Background()

	t.Run("creates today's row lazily and increments it", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)

		require.NoError(t, f.svc.RecordView(ctx, ev.ID))
		require.NoError(t, f.svc.RecordView(ctx, ev.ID))

		row, err := f.statsRepo.GetByEventAndDate(ctx, ev.ID, stats.DateOf(time.Now()))
		require.NoError(t, err)
		assert.Equal(t, 2, row.ViewCount)
	})

	t.Run("concurrent views lose nothing", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)

		const views = 50
		var wg sync.WaitGroup
		for i := 0; i < views; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = f.svc.RecordView(ctx, ev.ID)
			}()
		}
		wg.Wait()

		row, err := f.statsRepo.GetByEventAndDate(ctx, ev.ID, stats.DateOf(time.Now()))
		require.NoError(t, err)
		assert.Equal(t, views, row.ViewCount)
	})
}

func TestStatsService_SalesAccounting(t *testing.T) {
	ctx := context.Background()

	t.Run("sale then cancellation nets to zero", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)
		amount := decimal.RequireFromString("300.00")

		require.NoError(t, f.svc.RecordConfirmedSale(ctx, ev.ID, amount))
		require.NoError(t, f.svc.RecordCancellation(ctx, ev.ID, amount))

		row, err := f.statsRepo.GetByEventAndDate(ctx, ev.ID, stats.DateOf(time.Now()))
		require.NoError(t, err)
		assert.Equal(t, 0, row.ReservationCount)
		assert.True(t, row.Revenue.IsZero())
	})

	t.Run("counters floor at zero", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)

		require.NoError(t, f.svc.RecordConfirmedSale(ctx, ev.ID, decimal.NewFromInt(100)))
		// Cancel more than was ever sold on this row.
		require.NoError(t, f.svc.RecordCancellation(ctx, ev.ID, decimal.NewFromInt(500)))
		require.NoError(t, f.svc.RecordCancellation(ctx, ev.ID, decimal.NewFromInt(500)))

		row, err := f.statsRepo.GetByEventAndDate(ctx, ev.ID, stats.DateOf(time.Now()))
		require.NoError(t, err)
		assert.Equal(t, 0, row.ReservationCount)
		assert.True(t, row.Revenue.IsZero(), "revenue must never go negative, got %s", row.Revenue)
	})

	t.Run("cancellation without a row is a no-op", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)

		require.NoError(t, f.svc.RecordCancellation(ctx, ev.ID, decimal.NewFromInt(100)))

		_, err := f.statsRepo.GetByEventAndDate(ctx, ev.ID, stats.DateOf(time.Now()))
		assert.ErrorIs(t, err, stats.ErrStatNotFound, "no row must be created by a cancellation")
	})
}

func TestStatsService_EventStats(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner can read", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)

		_, err := f.svc.EventStats(ctx, "org-2", ev.ID, time.Now().AddDate(0, 0, -7), time.Now())

		assert.ErrorIs(t, err, event.ErrForbidden)
	})

	t.Run("returns rows in the range, oldest first", func(t *testing.T) {
		f := newStatsFixture()
		ev := f.seedEvent(t, "org-1", true, 0)
		today := stats.DateOf(time.Now())

		require.NoError(t, f.statsRepo.IncrementView(ctx, ev.ID, today.AddDate(0, 0, -2)))
		require.NoError(t, f.statsRepo.IncrementView(ctx, ev.ID, today))
		require.NoError(t, f.statsRepo.IncrementView(ctx, ev.ID, today.AddDate(0, 0, -40)))

		rows, err := f.svc.EventStats(ctx, "org-1", ev.ID, today.AddDate(0, 0, -7), today)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.True(t, rows[0].Date.Before(rows[1].Date))
	})
}

func TestStatsService_Overview(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture()

	published := f.seedEvent(t, "org-1", true, 300)
	f.seedEvent(t, "org-1", false, 100) // draft, counts for views only
	f.seedEvent(t, "org-2", true, 999)  // someone else's event

	// Two confirmed sales on the published event, one cancelled.
	for _, amount := range []string{"150.00", "250.00"} {
		seedConfirmedReservation(t, f.reservations, "user-1", published.ID, amount)
	}
	cancelled := seedConfirmedReservation(t, f.reservations, "user-1", published.ID, "999.00")
	tx := &fakeTx{}
	ok, err := f.reservations.MarkCancelled(ctx, tx, cancelled.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, tx.Commit())

	overview, err := f.svc.Overview(ctx, "org-1")
	require.NoError(t, err)

	assert.Equal(t, int64(400), overview.TotalViews, "views of both own events, drafts included")
	assert.Equal(t, int64(1), overview.ActiveEvents)
	assert.Equal(t, int64(2), overview.TotalReservations, "cancelled reservations do not count")
	assert.True(t, overview.Revenue.Equal(decimal.RequireFromString("400.00")), "got %s", overview.Revenue)
	assert.InDelta(t, 2.0/400.0, overview.ConversionRate, 1e-9)
}

func TestStatsService_Overview_NoViews(t *testing.T) {
	f := newStatsFixture()

	overview, err := f.svc.Overview(context.Background(), "org-empty")

	require.NoError(t, err)
	assert.Zero(t, overview.TotalViews)
	assert.Zero(t, overview.ConversionRate, "conversion rate must not divide by zero")
}

func seedConfirmedReservation(t *testing.T, repo *fakeReservationRepo, ownerID, eventID, amount string) *reservation.Reservation {
	t.Helper()
	res := reservation.NewReservation(ownerID, "offer-1", eventID, 1, decimal.RequireFromString(amount))
	tx := &fakeTx{}
	require.NoError(t, repo.Create(context.Background(), tx, res))
	require.NoError(t, tx.Commit())
	return res
}
