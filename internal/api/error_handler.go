package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/event"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/offer"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/reservation"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/domain/stats"
	redisinfra "github.com/asmaalachhab/Gestion-v-nementielle/internal/infrastructure/redis"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/logger"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// statusForDomainError maps domain sentinels to HTTP status codes so
// handlers can return service errors unmapped.
func statusForDomainError(err error) (int, bool) {
	switch {
	case errors.Is(err, event.ErrEventNotFound),
		errors.Is(err, offer.ErrOfferNotFound),
		errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, stats.ErrStatNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, event.ErrForbidden),
		errors.Is(err, reservation.ErrForbidden):
		return http.StatusForbidden, true

	case errors.Is(err, reservation.ErrInvalidSeatCount),
		errors.Is(err, event.ErrTitleRequired),
		errors.Is(err, event.ErrVenueRequired),
		errors.Is(err, event.ErrDateRequired),
		errors.Is(err, event.ErrOrganizerRequired),
		errors.Is(err, offer.ErrEventIDRequired),
		errors.Is(err, offer.ErrTicketTypeRequired),
		errors.Is(err, offer.ErrNegativeUnitPrice),
		errors.Is(err, offer.ErrInvalidCapacity):
		return http.StatusBadRequest, true

	case errors.Is(err, offer.ErrInsufficientCapacity),
		errors.Is(err, offer.ErrBelowSoldFloor),
		errors.Is(err, reservation.ErrCancellationWindowClosed),
		errors.Is(err, reservation.ErrInvalidTransition),
		errors.Is(err, event.ErrEventNotPublished),
		errors.Is(err, redisinfra.ErrLockNotAcquired):
		return http.StatusConflict, true
	}
	return 0, false
}

// CustomHTTPErrorHandler is the central echo error handler. Domain
// errors keep their message; everything else becomes a generic 500 so
// infrastructure details never leak to clients.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "internal server error"
	)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else if domainCode, ok := statusForDomainError(err); ok {
		code = domainCode
		message = err.Error()
	}

	if code >= 500 {
		logger.Error("server error",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		logger.Error("failed to send error response", zap.Error(err))
	}
}
