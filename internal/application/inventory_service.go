package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/transaction"
	redisinfra "github.com/asmaalachhab/Gestion-v-nementielle/internal/infrastructure/redis"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/logger"
)

const availabilityCacheTTL = 30 * time.Second

// InventoryService is the single point of truth for seat counts. All seat
// arithmetic goes through it so the "never oversell" invariant has one
// enforcement point.
type InventoryService struct {
	offerRepo offer.Repository
	eventRepo event.Repository
	cache     *redisinfra.AvailabilityCache
}

func NewInventoryService(or offer.Repository, er event.Repository, cache *redisinfra.AvailabilityCache) *InventoryService {
	return &InventoryService{offerRepo: or, eventRepo: er, cache: cache}
}

// ReserveSeats atomically decrements the available capacity of an offer.
// It propagates offer.ErrInsufficientCapacity untouched; the caller
// decides whether to retry with a smaller count or surface "sold out".
func (s *InventoryService) ReserveSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error) {
	if count < 1 {
		return nil, offer.ErrInvalidCapacity
	}
	return s.offerRepo.ReserveSeats(ctx, tx, offerID, count)
}

// ReleaseSeats restores seats after a cancellation, clamped at the
// initial capacity as a guard against double-release bugs.
func (s *InventoryService) ReleaseSeats(ctx context.Context, tx transaction.Tx, offerID string, count int) (*offer.Offer, error) {
	if count < 1 {
		return nil, offer.ErrInvalidCapacity
	}
	return s.offerRepo.ReleaseSeats(ctx, tx, offerID, count)
}

// InvalidateAvailability drops the cached seat count for an offer. Called
// after a capacity mutation commits; cache errors are logged only.
func (s *InventoryService) InvalidateAvailability(ctx context.Context, offerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, offerID); err != nil {
		logger.Warn("availability cache invalidation failed", zap.String("offer_id", offerID), zap.Error(err))
	}
}

// AvailableSeats returns the remaining seat count of an offer, served
// from the cache when possible.
func (s *InventoryService) AvailableSeats(ctx context.Context, offerID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, offerID)
		if err == nil {
			logger.Debug("availability cache hit", zap.String("offer_id", offerID), zap.Int("count", count))
			return count, nil
		}
		if err != redisinfra.ErrCacheMiss {
			logger.Warn("availability cache read failed", zap.Error(err))
		}
	}

	o, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, offerID, o.AvailableCapacity, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("availability cache write failed", zap.Error(cacheErr))
		}
	}
	return o.AvailableCapacity, nil
}

func (s *InventoryService) GetOffer(ctx context.Context, id string) (*offer.Offer, error) {
	return s.offerRepo.GetByID(ctx, id)
}

// ListEventOffers returns the offers of an event. Expired offers are
// hidden unless includeExpired is set (organizers see everything).
func (s *InventoryService) ListEventOffers(ctx context.Context, eventID string, includeExpired bool) ([]*offer.Offer, error) {
	offers, err := s.offerRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if includeExpired {
		return offers, nil
	}
	now := time.Now()
	active := make([]*offer.Offer, 0, len(offers))
	for _, o := range offers {
		if !o.IsExpired(now) {
			active = append(active, o)
		}
	}
	return active, nil
}

type CreateOfferInput struct {
	OrganizerID string
	EventID     string
	TicketType  string
	UnitPrice   decimal.Decimal
	Capacity    int
	ExpiresAt   time.Time
}

// CreateOffer creates a sellable offer on one of the organizer's events.
func (s *InventoryService) CreateOffer(ctx context.Context, input CreateOfferInput) (*offer.Offer, error) {
	ev, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsOwnedBy(input.OrganizerID) {
		return nil, event.ErrForbidden
	}
	o := offer.NewOffer(input.EventID, input.TicketType, input.UnitPrice, input.Capacity, input.ExpiresAt)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("creating offer: %w", err)
	}
	return o, nil
}

type UpdateOfferInput struct {
	OrganizerID string
	OfferID     string
	TicketType  *string
	UnitPrice   *decimal.Decimal
	ExpiresAt   *time.Time
	Capacity    *int
}

// UpdateOffer edits an offer's descriptive fields. A capacity change goes
// through ResizeCapacity so the sold count is preserved exactly.
func (s *InventoryService) UpdateOffer(ctx context.Context, input UpdateOfferInput) (*offer.Offer, error) {
	o, err := s.ownedOffer(ctx, input.OrganizerID, input.OfferID)
	if err != nil {
		return nil, err
	}

	if input.TicketType != nil {
		o.TicketType = *input.TicketType
	}
	if input.UnitPrice != nil {
		o.UnitPrice = *input.UnitPrice
	}
	if input.ExpiresAt != nil {
		o.ExpiresAt = *input.ExpiresAt
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if input.Capacity != nil {
		o, err = s.offerRepo.ResizeCapacity(ctx, o.ID, *input.Capacity)
		if err != nil {
			return nil, err
		}
		s.InvalidateAvailability(ctx, o.ID)
	}
	return o, nil
}

// DeleteOffer removes one of the organizer's offers.
func (s *InventoryService) DeleteOffer(ctx context.Context, organizerID, offerID string) error {
	if _, err := s.ownedOffer(ctx, organizerID, offerID); err != nil {
		return err
	}
	if err := s.offerRepo.Delete(ctx, offerID); err != nil {
		return err
	}
	s.InvalidateAvailability(ctx, offerID)
	return nil
}

// ownedOffer loads an offer and checks that its event belongs to the
// organizer.
func (s *InventoryService) ownedOffer(ctx context.Context, organizerID, offerID string) (*offer.Offer, error) {
	o, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	ev, err := s.eventRepo.GetByID(ctx, o.EventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsOwnedBy(organizerID) {
		return nil, event.ErrForbidden
	}
	return o, nil
}
