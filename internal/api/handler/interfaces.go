package handler

import (
	"context"
	"time"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/application"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
)

// EventServiceInterface is the catalog and organizer event surface.
type EventServiceInterface interface {
	Search(ctx context.Context, filter event.SearchFilter) ([]*event.Event, error)
	GetPublished(ctx context.Context, id string) (*event.Event, error)
	RecordView(ctx context.Context, id string) error
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	PublishEvent(ctx context.Context, organizerID, eventID string) (*event.Event, error)
	DeleteEvent(ctx context.Context, organizerID, eventID string) error
	MyEvents(ctx context.Context, organizerID string) ([]*event.Event, error)
}

// InventoryServiceInterface is the offer management and availability surface.
type InventoryServiceInterface interface {
	GetOffer(ctx context.Context, id string) (*offer.Offer, error)
	ListEventOffers(ctx context.Context, eventID string, includeExpired bool) ([]*offer.Offer, error)
	AvailableSeats(ctx context.Context, offerID string) (int, error)
	CreateOffer(ctx context.Context, input application.CreateOfferInput) (*offer.Offer, error)
	UpdateOffer(ctx context.Context, input application.UpdateOfferInput) (*offer.Offer, error)
	DeleteOffer(ctx context.Context, organizerID, offerID string) error
}

// ReservationServiceInterface is the booking surface.
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*application.ReservationSummary, error)
	GetUserReservations(ctx context.Context, ownerID string, limit, offset int) ([]*application.ReservationSummary, error)
	CancelReservation(ctx context.Context, ownerID, reservationID string) (*application.ReservationSummary, error)
}

// StatsServiceInterface is the organizer statistics surface.
type StatsServiceInterface interface {
	EventStats(ctx context.Context, organizerID, eventID string, from, to time.Time) ([]*stats.DailyStat, error)
	Overview(ctx context.Context, organizerID string) (*application.Overview, error)
}
