package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/reservation"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
	redisinfra "github.com/asmaalachhab/Gestion-v-nementielle/internal/infrastructure/redis"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/logger"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/metrics"
)

// maxCodeAttempts bounds the confirmation-code regeneration loop.
const maxCodeAttempts = 3

// InventoryLedger is what the reservation engine needs from the
// inventory side; all capacity changes are delegated to it.
type InventoryLedger interface {
	GetOffer(ctx context.Context, id string) (*offer.Offer, error)
	ReserveSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error)
	ReleaseSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error)
	InvalidateAvailability(ctx context.Context, offerID string)
}

// StatsRecorder receives sale/cancellation telemetry. Failures never
// affect the outcome of the booking itself.
type StatsRecorder interface {
	RecordConfirmedSale(ctx context.Context, eventID string, amount decimal.Decimal) error
	RecordCancellation(ctx context.Context, eventID string, amount decimal.Decimal) error
}

// ReservationService orchestrates the purchase and cancellation workflow.
// It is the only component that creates or transitions reservations.
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	eventRepo       event.Repository
	ledger          InventoryLedger
	stats           StatsRecorder
	lockManager     *redisinfra.LockManager
}

func NewReservationService(
	tm transaction.Manager,
	rr reservation.Repository,
	er event.Repository,
	ledger InventoryLedger,
	stats StatsRecorder,
	lm *redisinfra.LockManager,
) *ReservationService {
	return &ReservationService{
		txManager:       tm,
		reservationRepo: rr,
		eventRepo:       er,
		ledger:          ledger,
		stats:           stats,
		lockManager:     lm,
	}
}

// ReservationSummary is the denormalized read view returned to callers.
type ReservationSummary struct {
	ID               string
	ConfirmationCode string
	CreatedAt        time.Time
	SeatCount        int
	TotalAmount      decimal.Decimal
	Status           reservation.Status
	EventID          string
	EventTitle       string
	OfferID          string
	TicketType       string
	UnitPrice        decimal.Decimal
}

type CreateReservationInput struct {
	OwnerID   string
	OfferID   string
	SeatCount int
}

// CreateReservation reserves seats on an offer and persists a confirmed
// reservation, all in one transaction: the capacity decrement and the
// reservation record can never disagree. Statistics are recorded after
// commit, best-effort.
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*ReservationSummary, error) {
	if input.SeatCount < 1 {
		return nil, reservation.ErrInvalidSeatCount
	}
	if input.OwnerID == "" {
		return nil, reservation.ErrOwnerIDRequired
	}

	// Serialize the multi-step flow per offer across instances.
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, "offer:"+input.OfferID, 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				countReservation("lock_failed")
				return nil, fmt.Errorf("offer is being processed by another request: %w", err)
			}
			return nil, fmt.Errorf("acquiring offer lock: %w", err)
		}
		defer lock.Release(ctx)
	}

	// A confirmation-code collision aborts the whole transaction, so the
	// retry restarts the attempt with a fresh code.
	var (
		res *reservation.Reservation
		off *offer.Offer
		err error
	)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		res, off, err = s.createOnce(ctx, input)
		if !errors.Is(err, reservation.ErrConfirmationCodeTaken) {
			break
		}
		logger.Warn("confirmation code collision, retrying", zap.Int("attempt", attempt+1))
	}
	if err != nil {
		if errors.Is(err, offer.ErrInsufficientCapacity) {
			countReservation("sold_out")
		} else {
			countReservation("error")
		}
		return nil, err
	}
	countReservation("confirmed")
	s.ledger.InvalidateAvailability(ctx, off.ID)

	// Telemetry is not part of the booking contract: log and count
	// failures, never undo the reservation.
	if statErr := s.stats.RecordConfirmedSale(ctx, off.EventID, res.TotalAmount); statErr != nil {
		s.reportStatsFailure("confirmed sale", res.ID, statErr)
	}

	return s.summarize(ctx, res, off)
}

func (s *ReservationService) createOnce(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, *offer.Offer, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	off, err := s.ledger.ReserveSeats(ctx, tx, input.OfferID, input.SeatCount)
	if err != nil {
		return nil, nil, err
	}

	res := reservation.NewReservation(input.OwnerID, off.ID, off.EventID, input.SeatCount, off.UnitPrice)
	if err := res.Validate(); err != nil {
		return nil, nil, err
	}
	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing reservation: %w", err)
	}
	return res, off, nil
}

// CancelReservation cancels a confirmed reservation and restores its
// seats. Cancelling an already-cancelled reservation is an idempotent
// no-op returning the current state.
func (s *ReservationService) CancelReservation(ctx context.Context, ownerID, reservationID string) (*ReservationSummary, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != ownerID {
		return nil, reservation.ErrForbidden
	}
	if res.IsCancelled() {
		return s.summarize(ctx, res, nil)
	}

	ev, err := s.eventRepo.GetByID(ctx, res.EventID)
	if err != nil {
		return nil, err
	}
	deadline := ev.StartInstant().Add(-reservation.CancellationWindow)
	if time.Now().After(deadline) {
		return nil, fmt.Errorf("%w (deadline was %s)", reservation.ErrCancellationWindowClosed, deadline.Format(time.RFC3339))
	}

	now := time.Now()
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim the transition first: the losing side of a concurrent
	// double-cancel sees zero rows and releases nothing.
	cancelled, err := s.reservationRepo.MarkCancelled(ctx, tx, res.ID, now)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		tx.Rollback()
		current, err := s.reservationRepo.GetByID(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		return s.summarize(ctx, current, nil)
	}

	if _, err := s.ledger.ReleaseSeats(ctx, tx, res.OfferID, res.SeatCount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing cancellation: %w", err)
	}
	countReservation("cancelled")
	s.ledger.InvalidateAvailability(ctx, res.OfferID)

	res.Status = reservation.StatusCancelled
	res.CancelledAt = &now
	res.UpdatedAt = now

	// Refund accounting uses the amount that was actually charged, not a
	// recomputation from the current offer price.
	if statErr := s.stats.RecordCancellation(ctx, res.EventID, res.TotalAmount); statErr != nil {
		s.reportStatsFailure("cancellation", res.ID, statErr)
	}

	return s.summarize(ctx, res, nil)
}

// GetUserReservations returns a user's reservations, newest first.
func (s *ReservationService) GetUserReservations(ctx context.Context, ownerID string, limit, offset int) ([]*ReservationSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	reservations, err := s.reservationRepo.ListByOwnerID(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	summaries := make([]*ReservationSummary, len(reservations))
	for i, res := range reservations {
		summary, err := s.summarize(ctx, res, nil)
		if err != nil {
			return nil, err
		}
		summaries[i] = summary
	}
	return summaries, nil
}

// summarize denormalizes a reservation with its offer and event. The
// offer may be passed in when the caller already holds a fresh snapshot.
func (s *ReservationService) summarize(ctx context.Context, res *reservation.Reservation, off *offer.Offer) (*ReservationSummary, error) {
	summary := &ReservationSummary{
		ID:               res.ID,
		ConfirmationCode: res.ConfirmationCode,
		CreatedAt:        res.CreatedAt,
		SeatCount:        res.SeatCount,
		TotalAmount:      res.TotalAmount,
		Status:           res.Status,
		EventID:          res.EventID,
		OfferID:          res.OfferID,
	}

	if off == nil {
		loaded, err := s.ledger.GetOffer(ctx, res.OfferID)
		if err != nil {
			return nil, err
		}
		off = loaded
	}
	summary.TicketType = off.TicketType
	summary.UnitPrice = off.UnitPrice

	ev, err := s.eventRepo.GetByID(ctx, res.EventID)
	if err != nil {
		return nil, err
	}
	summary.EventTitle = ev.Title
	return summary, nil
}

func (s *ReservationService) reportStatsFailure(kind, reservationID string, err error) {
	logger.Error("recording statistics failed",
		zap.String("kind", kind),
		zap.String("reservation_id", reservationID),
		zap.Error(err),
	)
	if m := metrics.Get(); m != nil {
		m.StatsRecordFailures.Inc()
	}
}

func countReservation(status string) {
	if m := metrics.Get(); m != nil {
		m.ReservationsTotal.WithLabelValues(status).Inc()
	}
}
