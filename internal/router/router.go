package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafeteria-booking/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication or
// any middleware on the provided Echo instance.  Currently it exposes only
// a health check.
func RegisterRoutes(e *echo.Echo) {
	// used by load balancers and monitoring to verify the service is up
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the public catalog browse endpoints.  cache is
// the Redis response cache; menus change only on deploy so they are safe to
// serve from it.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/restaurants", cache)
	g.GET("", h.ListRestaurants)
	g.GET("/:id/menu", h.GetMenu)
}
