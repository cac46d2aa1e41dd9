package application

import (
	"context"
	"fmt"
	"time"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
)

// ViewTelemetry accepts fire-and-forget view notifications. Enqueue must
// never block the caller.
type ViewTelemetry interface {
	Enqueue(eventID string)
}

// EventService serves the public catalog and the organizer's event
// management.
type EventService struct {
	eventRepo event.Repository
	telemetry ViewTelemetry
}

func NewEventService(er event.Repository, telemetry ViewTelemetry) *EventService {
	return &EventService{eventRepo: er, telemetry: telemetry}
}

// Search returns published events matching the filter.
func (s *EventService) Search(ctx context.Context, filter event.SearchFilter) ([]*event.Event, error) {
	return s.eventRepo.Search(ctx, filter)
}

// GetPublished returns a publicly visible event.
func (s *EventService) GetPublished(ctx context.Context, id string) (*event.Event, error) {
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ev.IsPublished() {
		return nil, event.ErrEventNotPublished
	}
	return ev, nil
}

// RecordView bumps the event's lifetime view counter and hands the view
// to the daily-stats recorder without waiting for it.
func (s *EventService) RecordView(ctx context.Context, id string) error {
	ev, err := s.GetPublished(ctx, id)
	if err != nil {
		return err
	}
	if err := s.eventRepo.IncrementViewCount(ctx, ev.ID); err != nil {
		return fmt.Errorf("incrementing view count: %w", err)
	}
	if s.telemetry != nil {
		s.telemetry.Enqueue(ev.ID)
	}
	return nil
}

type CreateEventInput struct {
	OrganizerID string
	Title       string
	Description string
	Venue       string
	ImageURL    string
	Date        time.Time
	StartTime   time.Time
}

// CreateEvent creates a draft event for the organizer.
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	ev := event.NewEvent(input.Title, input.Description, input.Venue, input.ImageURL, input.OrganizerID, input.Date, input.StartTime)
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return ev, nil
}

type UpdateEventInput struct {
	OrganizerID string
	EventID     string
	Title       *string
	Description *string
	Venue       *string
	ImageURL    *string
	Date        *time.Time
	StartTime   *time.Time
}

// UpdateEvent applies a partial update to one of the organizer's events.
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	ev, err := s.ownedEvent(ctx, input.OrganizerID, input.EventID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		ev.Title = *input.Title
	}
	if input.Description != nil {
		ev.Description = *input.Description
	}
	if input.Venue != nil {
		ev.Venue = *input.Venue
	}
	if input.ImageURL != nil {
		ev.ImageURL = *input.ImageURL
	}
	if input.Date != nil {
		ev.Date = *input.Date
	}
	if input.StartTime != nil {
		ev.StartTime = *input.StartTime
	}
	ev.UpdatedAt = time.Now()
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// PublishEvent makes one of the organizer's events publicly visible.
func (s *EventService) PublishEvent(ctx context.Context, organizerID, eventID string) (*event.Event, error) {
	ev, err := s.ownedEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	ev.Publish()
	if err := s.eventRepo.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// DeleteEvent removes one of the organizer's events.
func (s *EventService) DeleteEvent(ctx context.Context, organizerID, eventID string) error {
	if _, err := s.ownedEvent(ctx, organizerID, eventID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

// MyEvents returns the organizer's events, newest first.
func (s *EventService) MyEvents(ctx context.Context, organizerID string) ([]*event.Event, error) {
	return s.eventRepo.ListByOrganizer(ctx, organizerID)
}

func (s *EventService) ownedEvent(ctx context.Context, organizerID, eventID string) (*event.Event, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsOwnedBy(organizerID) {
		return nil, event.ErrForbidden
	}
	return ev, nil
}
