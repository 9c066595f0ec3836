package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/handler"
)

// RegisterBooking registers the booking workflow endpoints under /v1.  They
// are anonymous: the session id in the path is the only credential.  limit
// is applied to every call that changes a session.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/bookings")
	g.POST("", h.Start, limit)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Cancel, limit)

	// ---- Form 1: dishes and customer details ----
	g.POST("/:id/cart/items", h.AddItem, limit)
	g.DELETE("/:id/cart/items/:name", h.RemoveItem, limit)
	g.POST("/:id/details", h.SubmitDetails, limit)

	// ---- Form 2: seats ----
	g.POST("/:id/seats/:seat/toggle", h.ToggleSeat, limit)
	g.POST("/:id/seats", h.SubmitSeats, limit)

	// ---- Navigation and payment ----
	g.POST("/:id/back", h.Back, limit)
	g.POST("/:id/payment", h.Pay, limit)

	e.GET("/v1/receipts/:ref", h.Receipt)
}
