// This file defines handlers for browsing the restaurant catalog.  These
// routes are public and their responses are cached in Redis by the router.

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/service"
)

// CatalogHandler serves the restaurant list and menus.
type CatalogHandler struct {
	Catalog *booking.Catalog
}

// NewCatalogHandler constructs a CatalogHandler and panics if catalog is nil.
func NewCatalogHandler(catalog *booking.Catalog) *CatalogHandler {
	if catalog == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog}
}

// PublicRestaurant is a restaurant in list responses.
type PublicRestaurant struct {
	ID    booking.RestaurantID `json:"id"`
	Name  string               `json:"name"`
	Items int                  `json:"items"`
}

// PublicMenuItem is one dish on a menu.
type PublicMenuItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ListRestaurants returns every restaurant in catalog order.
func (h *CatalogHandler) ListRestaurants(c echo.Context) error {
	rs := h.Catalog.Restaurants()
	out := make([]PublicRestaurant, 0, len(rs))
	for _, r := range rs {
		out = append(out, PublicRestaurant{ID: r.ID, Name: r.Name, Items: len(r.Menu)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMenu returns the menu of one restaurant.
func (h *CatalogHandler) GetMenu(c echo.Context) error {
	r, err := h.Catalog.Lookup(booking.RestaurantID(c.Param("id")))
	if err != nil {
		if errors.Is(err, booking.ErrUnknownRestaurant) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return writeError(c, err)
	}
	items := make([]PublicMenuItem, 0, len(r.Menu))
	for _, it := range r.Menu {
		items = append(items, PublicMenuItem{Name: it.Name, Price: it.Price})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant": PublicRestaurant{ID: r.ID, Name: r.Name, Items: len(r.Menu)},
		"currency":   service.Currency,
		"items":      items,
	})
}
