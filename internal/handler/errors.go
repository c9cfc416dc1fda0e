package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
	"github.com/iliyamo/railway-ticket-reservation/internal/service"
)

// writeError translates service and repository sentinel errors into
// HTTP responses.  Anything unrecognised is a store failure and maps
// to 500 with a generic message; the underlying error is logged by the
// caller, never leaked to the client.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrTrainNotFound),
		errors.Is(err, repository.ErrWagonNotFound),
		errors.Is(err, repository.ErrSeatNotFound),
		errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSeatUnavailable):
		// Lost the reservation race.  409 tells the client to pick
		// another seat rather than retry this one.
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
