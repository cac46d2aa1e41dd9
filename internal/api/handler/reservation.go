package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/application"
)

// ReservationHandler serves the booking endpoints.
type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	OfferID   string `json:"offer_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatCount int    `json:"seat_count" validate:"required,gte=1" example:"2"`
}

type ReservationResponse struct {
	ID               string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ConfirmationCode string `json:"confirmation_code" example:"RES-3F2A9C1B"`
	Status           string `json:"status" example:"confirmed"`
	SeatCount        int    `json:"seat_count" example:"2"`
	TotalAmount      string `json:"total_amount" example:"700.00"`
	EventID          string `json:"event_id"`
	EventTitle       string `json:"event_title" example:"Jazz au Chellah"`
	OfferID          string `json:"offer_id"`
	TicketType       string `json:"ticket_type" example:"VIP"`
	UnitPrice        string `json:"unit_price" example:"350.00"`
	CreatedAt        string `json:"created_at"`
}

func toReservationResponse(s *application.ReservationSummary) *ReservationResponse {
	return &ReservationResponse{
		ID:               s.ID,
		ConfirmationCode: s.ConfirmationCode,
		Status:           string(s.Status),
		SeatCount:        s.SeatCount,
		TotalAmount:      s.TotalAmount.StringFixed(2),
		EventID:          s.EventID,
		EventTitle:       s.EventTitle,
		OfferID:          s.OfferID,
		TicketType:       s.TicketType,
		UnitPrice:        s.UnitPrice.StringFixed(2),
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
	}
}

func requireUserID(c echo.Context) (string, error) {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "user identity required")
	}
	return userID, nil
}

// Create godoc
// @Summary Reserve seats on an offer
// @Description Decrements capacity and confirms the reservation atomically
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param request body CreateReservationRequest true "Reservation"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "Not enough seats left"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	summary, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		OwnerID:   userID,
		OfferID:   req.OfferID,
		SeatCount: req.SeatCount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(summary))
}

// MyReservations godoc
// @Summary List the caller's reservations
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /reservations/me [get]
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	summaries, err := h.service.GetUserReservations(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	resp := make([]*ReservationResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toReservationResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary Cancel a reservation
// @Description Releases the seats; idempotent when already cancelled
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Reservation ID"
// @Success 200 {object} ReservationResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "Cancellation window closed"
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	summary, err := h.service.CancelReservation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(summary))
}
