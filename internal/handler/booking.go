package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/service"
)

// BookingHandler exposes the booking workflow over HTTP.  Every route below
// /v1/bookings/:id addresses one session; the service applies the operation
// and the handler returns the resulting view.
type BookingHandler struct {
	Service *service.BookingService
}

// NewBookingHandler constructs a BookingHandler and panics if svc is nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc}
}

type addItemReq struct {
	Restaurant string `json:"restaurant"`
	Item       string `json:"item"`
}

type detailsReq struct {
	Name       string `json:"name"`
	Restaurant string `json:"restaurant"`
}

// Start opens a new booking session.
func (h *BookingHandler) Start(c echo.Context) error {
	v, err := h.Service.Start(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// Get returns the current state of a session.
func (h *BookingHandler) Get(c echo.Context) error {
	v, err := h.Service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// AddItem adds one unit of a dish to the session cart.  Prices always come
// from the catalog; the client only names the dish.
func (h *BookingHandler) AddItem(c echo.Context) error {
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Restaurant = strings.TrimSpace(req.Restaurant)
	req.Item = strings.TrimSpace(req.Item)
	if req.Restaurant == "" || req.Item == "" {
		return badRequest(c, "restaurant and item are required")
	}
	v, err := h.Service.AddItem(c.Request().Context(), c.Param("id"), booking.RestaurantID(req.Restaurant), req.Item)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// RemoveItem takes one unit of a dish out of the cart.  Removing a dish that
// is not in the cart is not an error.
func (h *BookingHandler) RemoveItem(c echo.Context) error {
	v, err := h.Service.RemoveItem(c.Request().Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// SubmitDetails submits the first form.  Validation problems come back as a
// 422 listing every message at once.
func (h *BookingHandler) SubmitDetails(c echo.Context) error {
	var req detailsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	v, err := h.Service.SubmitDetails(c.Request().Context(), c.Param("id"),
		req.Name, booking.RestaurantID(strings.TrimSpace(req.Restaurant)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// ToggleSeat flips a single seat in the selection.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	seat, err := strconv.Atoi(c.Param("seat"))
	if err != nil {
		return badRequest(c, "invalid seat")
	}
	v, err := h.Service.ToggleSeat(c.Request().Context(), c.Param("id"), seat)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// SubmitSeats confirms the seat selection and moves to payment.
func (h *BookingHandler) SubmitSeats(c echo.Context) error {
	v, err := h.Service.SubmitSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Back returns the session to the previous step.
func (h *BookingHandler) Back(c echo.Context) error {
	v, err := h.Service.Back(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Pay hands the booking to payment and returns the redirect and receipt.
func (h *BookingHandler) Pay(c echo.Context) error {
	res, err := h.Service.Pay(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel discards the session.
func (h *BookingHandler) Cancel(c echo.Context) error {
	if err := h.Service.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Receipt returns a stored receipt by payment reference.
func (h *BookingHandler) Receipt(c echo.Context) error {
	rc, err := h.Service.Receipt(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rc)
}
