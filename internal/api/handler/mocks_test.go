package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/application"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
)

// MockEventService mocks EventServiceInterface.
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Search(ctx context.Context, filter event.SearchFilter) ([]*event.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) GetPublished(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) RecordView(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) PublishEvent(ctx context.Context, organizerID, eventID string) (*event.Event, error) {
	args := m.Called(ctx, organizerID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, organizerID, eventID string) error {
	args := m.Called(ctx, organizerID, eventID)
	return args.Error(0)
}

func (m *MockEventService) MyEvents(ctx context.Context, organizerID string) ([]*event.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

// MockInventoryService mocks InventoryServiceInterface.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) GetOffer(ctx context.Context, id string) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockInventoryService) ListEventOffers(ctx context.Context, eventID string, includeExpired bool) ([]*offer.Offer, error) {
	args := m.Called(ctx, eventID, includeExpired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

func (m *MockInventoryService) AvailableSeats(ctx context.Context, offerID string) (int, error) {
	args := m.Called(ctx, offerID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) CreateOffer(ctx context.Context, input application.CreateOfferInput) (*offer.Offer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockInventoryService) UpdateOffer(ctx context.Context, input application.UpdateOfferInput) (*offer.Offer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockInventoryService) DeleteOffer(ctx context.Context, organizerID, offerID string) error {
	args := m.Called(ctx, organizerID, offerID)
	return args.Error(0)
}

// MockReservationService mocks ReservationServiceInterface.
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, input application.CreateReservationInput) (*application.ReservationSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationSummary), args.Error(1)
}

func (m *MockReservationService) GetUserReservations(ctx context.Context, ownerID string, limit, offset int) ([]*application.ReservationSummary, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*application.ReservationSummary), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, ownerID, reservationID string) (*application.ReservationSummary, error) {
	args := m.Called(ctx, ownerID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ReservationSummary), args.Error(1)
}

// MockStatsService mocks StatsServiceInterface.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) EventStats(ctx context.Context, organizerID, eventID string, from, to time.Time) ([]*stats.DailyStat, error) {
	args := m.Called(ctx, organizerID, eventID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stats.DailyStat), args.Error(1)
}

func (m *MockStatsService) Overview(ctx context.Context, organizerID string) (*application.Overview, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Overview), args.Error(1)
}

var (
	_ EventServiceInterface       = (*MockEventService)(nil)
	_ InventoryServiceInterface   = (*MockInventoryService)(nil)
	_ ReservationServiceInterface = (*MockReservationService)(nil)
	_ StatsServiceInterface       = (*MockStatsService)(nil)
)
