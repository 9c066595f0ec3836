package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/repository"
)

// writeError maps domain and repository errors to JSON responses.  Unknown
// errors are logged and answered with a generic 500 so internals do not
// leak to clients.
func writeError(c echo.Context, err error) error {
	var ve *booking.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "messages": ve.Messages})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSeatOutOfRange),
		errors.Is(err, booking.ErrUnknownItem),
		errors.Is(err, booking.ErrUnknownRestaurant):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "messages": []string{err.Error()}})
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrReceiptNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "receipt not found"})
	case errors.Is(err, repository.ErrStallNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "stall not found"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// badRequest answers 400 with a fixed message.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
