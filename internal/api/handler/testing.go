package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/api"
)

// NewTestEcho creates an echo instance for handler tests.
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
