package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/application"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
)

// OrganizerHandler serves the event-management surface. Every operation
// is scoped to the caller's organizer ID; ownership is enforced in the
// services.
type OrganizerHandler struct {
	eventService     EventServiceInterface
	inventoryService InventoryServiceInterface
	statsService     StatsServiceInterface
}

func NewOrganizerHandler(es EventServiceInterface, is InventoryServiceInterface, ss StatsServiceInterface) *OrganizerHandler {
	return &OrganizerHandler{eventService: es, inventoryService: is, statsService: ss}
}

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required" example:"Jazz au Chellah"`
	Description string `json:"description" example:"Festival de jazz annuel"`
	Venue       string `json:"venue" validate:"required" example:"Chellah, Rabat"`
	ImageURL    string `json:"image_url" example:"https://cdn.example.com/jazz.jpg"`
	Date        string `json:"date" validate:"required" example:"2026-09-20"`
	StartTime   string `json:"start_time" validate:"required" example:"19:30"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Venue       *string `json:"venue"`
	ImageURL    *string `json:"image_url"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
}

type CreateOfferRequest struct {
	TicketType string `json:"ticket_type" validate:"required" example:"VIP"`
	UnitPrice  string `json:"unit_price" validate:"required" example:"350.00"`
	Capacity   int    `json:"capacity" validate:"gte=0" example:"200"`
	ExpiresAt  string `json:"expires_at" validate:"required" example:"2026-09-19"`
}

type UpdateOfferRequest struct {
	TicketType *string `json:"ticket_type"`
	UnitPrice  *string `json:"unit_price"`
	Capacity   *int    `json:"capacity"`
	ExpiresAt  *string `json:"expires_at"`
}

type DailyStatResponse struct {
	Date             string `json:"date" example:"2026-09-20"`
	ViewCount        int    `json:"view_count" example:"312"`
	ReservationCount int    `json:"reservation_count" example:"18"`
	Revenue          string `json:"revenue" example:"6300.00"`
}

func toDailyStatResponse(s *stats.DailyStat) *DailyStatResponse {
	return &DailyStatResponse{
		Date:             s.Date.Format(dateLayout),
		ViewCount:        s.ViewCount,
		ReservationCount: s.ReservationCount,
		Revenue:          s.Revenue.StringFixed(2),
	}
}

type OverviewResponse struct {
	TotalViews        int64   `json:"total_views" example:"15320"`
	TotalReservations int64   `json:"total_reservations" example:"482"`
	Revenue           string  `json:"revenue" example:"96400.00"`
	ActiveEvents      int64   `json:"active_events" example:"3"`
	ConversionRate    float64 `json:"conversion_rate" example:"3.15"`
}

// CreateEvent godoc
// @Summary Create a draft event
// @Tags organizer
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param request body CreateEventRequest true "Event"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /organizer/events [post]
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	startTime, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time")
	}
	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		ImageURL:    req.ImageURL,
		Date:        date,
		StartTime:   startTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// MyEvents godoc
// @Summary List the organizer's events, drafts included
// @Tags organizer
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Success 200 {array} EventResponse
// @Router /organizer/events [get]
func (h *OrganizerHandler) MyEvents(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	events, err := h.eventService.MyEvents(c.Request().Context(), organizerID)
	if err != nil {
		return err
	}
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Omitted fields keep their current value
// @Tags organizer
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Event ID"
// @Param request body UpdateEventRequest true "Changed fields"
// @Success 200 {object} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /organizer/events/{id} [put]
func (h *OrganizerHandler) UpdateEvent(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input := application.UpdateEventInput{
		OrganizerID: organizerID,
		EventID:     c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		ImageURL:    req.ImageURL,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		input.Date = &date
	}
	if req.StartTime != nil {
		startTime, err := time.Parse(timeLayout, *req.StartTime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time")
		}
		input.StartTime = &startTime
	}
	e, err := h.eventService.UpdateEvent(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// PublishEvent godoc
// @Summary Publish a draft event
// @Tags organizer
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /organizer/events/{id}/publish [post]
func (h *OrganizerHandler) PublishEvent(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	e, err := h.eventService.PublishEvent(c.Request().Context(), organizerID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags organizer
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Event ID"
// @Success 204
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /organizer/events/{id} [delete]
func (h *OrganizerHandler) DeleteEvent(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), organizerID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateOffer godoc
// @Summary Add an offer to an event
// @Tags organizer
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Event ID"
// @Param request body CreateOfferRequest true "Offer"
// @Success 201 {object} OfferResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /organizer/events/{id}/offers [post]
func (h *OrganizerHandler) CreateOffer(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unit_price")
	}
	expiresAt, err := time.Parse(dateLayout, req.ExpiresAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid expires_at")
	}
	o, err := h.inventoryService.CreateOffer(c.Request().Context(), application.CreateOfferInput{
		OrganizerID: organizerID,
		EventID:     c.Param("id"),
		TicketType:  req.TicketType,
		UnitPrice:   unitPrice,
		Capacity:    req.Capacity,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOfferResponse(o))
}

// ListOffers godoc
// @Summary List all offers of an event, expired included
// @Tags organizer
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Event ID"
// @Success 200 {array} OfferResponse
// @Router /organizer/events/{id}/offers [get]
func (h *OrganizerHandler) ListOffers(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	offers, err := h.inventoryService.ListEventOffers(c.Request().Context(), c.Param("id"), true)
	if err != nil {
		return err
	}
	responses := make([]*OfferResponse, len(offers))
	for i, o := range offers {
		responses[i] = toOfferResponse(o)
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateOffer godoc
// @Summary Update an offer
// @Description A capacity change keeps already-sold seats intact
// @Tags organizer
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Offer ID"
// @Param request body UpdateOfferRequest true "Changed fields"
// @Success 200 {object} OfferResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "Capacity below sold count"
// @Router /organizer/offers/{id} [put]
func (h *OrganizerHandler) UpdateOffer(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req UpdateOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	input := application.UpdateOfferInput{
		OrganizerID: organizerID,
		OfferID:     c.Param("id"),
		TicketType:  req.TicketType,
		Capacity:    req.Capacity,
	}
	if req.UnitPrice != nil {
		unitPrice, err := decimal.NewFromString(*req.UnitPrice)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid unit_price")
		}
		input.UnitPrice = &unitPrice
	}
	if req.ExpiresAt != nil {
		expiresAt, err := time.Parse(dateLayout, *req.ExpiresAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid expires_at")
		}
		input.ExpiresAt = &expiresAt
	}
	o, err := h.inventoryService.UpdateOffer(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOfferResponse(o))
}

// DeleteOffer godoc
// @Summary Delete an offer
// @Tags organizer
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Offer ID"
// @Success 204
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /organizer/offers/{id} [delete]
func (h *OrganizerHandler) DeleteOffer(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.inventoryService.DeleteOffer(c.Request().Context(), organizerID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// EventStats godoc
// @Summary Daily statistics of an event
// @Tags organizer
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Param id path string true "Event ID"
// @Param from query string false "Range start (YYYY-MM-DD), default 30 days ago"
// @Param to query string false "Range end (YYYY-MM-DD), default today"
// @Success 200 {array} DailyStatResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /organizer/events/{id}/stats [get]
func (h *OrganizerHandler) EventStats(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.QueryParam("from"); v != "" {
		from, err = time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from")
		}
	}
	if v := c.QueryParam("to"); v != "" {
		to, err = time.Parse(dateLayout, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to")
		}
	}
	rows, err := h.statsService.EventStats(c.Request().Context(), organizerID, c.Param("id"), from, to)
	if err != nil {
		return err
	}
	responses := make([]*DailyStatResponse, len(rows))
	for i, s := range rows {
		responses[i] = toDailyStatResponse(s)
	}
	return c.JSON(http.StatusOK, responses)
}

// Overview godoc
// @Summary Lifetime totals across the organizer's events
// @Tags organizer
// @Produce json
// @Param X-User-ID header string true "Organizer ID"
// @Success 200 {object} OverviewResponse
// @Router /organizer/stats/overview [get]
func (h *OrganizerHandler) Overview(c echo.Context) error {
	organizerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	o, err := h.statsService.Overview(c.Request().Context(), organizerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, OverviewResponse{
		TotalViews:        o.TotalViews,
		TotalReservations: o.TotalReservations,
		Revenue:           o.Revenue.StringFixed(2),
		ActiveEvents:      o.ActiveEvents,
		ConversionRate:    o.ConversionRate,
	})
}
