package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/handler"
	"github.com/iliyamo/cafeteria-booking/internal/middleware"
	"github.com/iliyamo/cafeteria-booking/internal/utils"
)

// RegisterStalls registers the cafeteria queue map and the staff login.
// Reading the map is public; updating a queue requires a valid JWT and the
// STAFF role.  Queue lengths change constantly so nothing here is cached.
func RegisterStalls(e *echo.Echo, h *handler.StallHandler, a *handler.StaffAuthHandler, jwtSecret string) {
	e.POST("/v1/staff/login", a.Login)

	e.GET("/v1/stalls", h.List)
	e.GET("/v1/stalls/busiest", h.Busiest)

	staff := e.Group(
		"/v1/stalls",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleStaff),
	)
	staff.PUT("/:id/queue", h.UpdateQueue)
}
