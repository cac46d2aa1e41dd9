package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// EventHandler serves the public event catalog.
type EventHandler struct {
	eventService     EventServiceInterface
	inventoryService InventoryServiceInterface
}

func NewEventHandler(es EventServiceInterface, is InventoryServiceInterface) *EventHandler {
	return &EventHandler{eventService: es, inventoryService: is}
}

type EventResponse struct {
	ID          string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title       string `json:"title" example:"Jazz au Chellah"`
	Description string `json:"description,omitempty"`
	Venue       string `json:"venue" example:"Chellah, Rabat"`
	ImageURL    string `json:"image_url,omitempty"`
	Date        string `json:"date" example:"2026-09-20"`
	StartTime   string `json:"start_time" example:"19:30"`
	Status      string `json:"status" example:"published"`
	ViewCount   int    `json:"view_count" example:"1042"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		ImageURL:    e.ImageURL,
		Date:        e.Date.Format(dateLayout),
		StartTime:   e.StartTime.Format(timeLayout),
		Status:      string(e.Status),
		ViewCount:   e.ViewCount,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

type OfferResponse struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID    string `json:"event_id"`
	TicketType string `json:"ticket_type" example:"VIP"`
	UnitPrice  string `json:"unit_price" example:"350.00"`
	Available  int    `json:"available" example:"120"`
	Sold       int    `json:"sold" example:"80"`
	Capacity   int    `json:"capacity" example:"200"`
	ExpiresAt  string `json:"expires_at" example:"2026-09-19"`
}

func toOfferResponse(o *offer.Offer) *OfferResponse {
	return &OfferResponse{
		ID:         o.ID,
		EventID:    o.EventID,
		TicketType: o.TicketType,
		UnitPrice:  o.UnitPrice.StringFixed(2),
		Available:  o.AvailableCapacity,
		Sold:       o.Sold(),
		Capacity:   o.InitialCapacity,
		ExpiresAt:  o.ExpiresAt.Format(dateLayout),
	}
}

// Search godoc
// @Summary Search published events
// @Description Full-text search on title/venue with optional date range
// @Tags events
// @Produce json
// @Param q query string false "Search terms"
// @Param date_from query string false "Earliest event date (YYYY-MM-DD)"
// @Param date_to query string false "Latest event date (YYYY-MM-DD)"
// @Param sort query string false "date_asc|date_desc|views" default(date_asc)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) Search(c echo.Context) error {
	filter := event.SearchFilter{
		Query: c.QueryParam("q"),
		Sort:  c.QueryParam("sort"),
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
		}
		filter.DateFrom = &t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date_to")
		}
		filter.DateTo = &t
	}

	events, err := h.eventService.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetByID godoc
// @Summary Get a published event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.eventService.GetPublished(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// View godoc
// @Summary Record a view of an event
// @Description Bumps the lifetime counter and the daily statistics
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/view [post]
func (h *EventHandler) View(c echo.Context) error {
	if err := h.eventService.RecordView(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOffers godoc
// @Summary List the sellable offers of an event
// @Description Expired offers are hidden from the public listing
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} OfferResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id}/offers [get]
func (h *EventHandler) ListOffers(c echo.Context) error {
	// Visibility check first: draft events expose nothing.
	e, err := h.eventService.GetPublished(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	offers, err := h.inventoryService.ListEventOffers(c.Request().Context(), e.ID, false)
	if err != nil {
		return err
	}
	responses := make([]*OfferResponse, len(offers))
	for i, o := range offers {
		responses[i] = toOfferResponse(o)
	}
	return c.JSON(http.StatusOK, responses)
}

// Availability godoc
// @Summary Remaining seats of an offer
// @Description Served from the Redis cache when warm
// @Tags events
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} api.ErrorResponse
// @Router /offers/{id}/availability [get]
func (h *EventHandler) Availability(c echo.Context) error {
	count, err := h.inventoryService.AvailableSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"available": count})
}
