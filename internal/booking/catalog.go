package booking

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RestaurantID identifies a restaurant in the catalog.  It is a slug such as
// "gourmet-palace", never the display name.
type RestaurantID string

// MenuItem is a single dish with its price in rupees.
type MenuItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Restaurant pairs a catalog id with its display name and menu.
type Restaurant struct {
	ID   RestaurantID `json:"id"`
	Name string       `json:"name"`
	Menu []MenuItem   `json:"menu"`
}

// Catalog is a read-only restaurant → menu lookup.  It is validated once at
// construction, so every lookup afterwards either hits a well-formed menu or
// fails with ErrUnknownRestaurant.
type Catalog struct {
	order []RestaurantID
	byID  map[RestaurantID]Restaurant
}

// NewCatalog validates restaurants and builds a Catalog.  Ids must be unique
// and non-blank, every menu must hold at least one dish, dish names must be
// unique within a menu and every price must be positive.
func NewCatalog(restaurants []Restaurant) (*Catalog, error) {
	c := &Catalog{byID: make(map[RestaurantID]Restaurant, len(restaurants))}
	for _, r := range restaurants {
		if strings.TrimSpace(string(r.ID)) == "" {
			return nil, fmt.Errorf("catalog: restaurant %q has an empty id", r.Name)
		}
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("catalog: restaurant %s has an empty name", r.ID)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate restaurant id %s", r.ID)
		}
		if len(r.Menu) == 0 {
			return nil, fmt.Errorf("catalog: restaurant %s has an empty menu", r.ID)
		}
		seen := make(map[string]struct{}, len(r.Menu))
		menu := make([]MenuItem, 0, len(r.Menu))
		for _, it := range r.Menu {
			if strings.TrimSpace(it.Name) == "" {
				return nil, fmt.Errorf("catalog: restaurant %s has an unnamed item", r.ID)
			}
			if !it.Price.IsPositive() {
				return nil, fmt.Errorf("catalog: item %q of %s must have a positive price", it.Name, r.ID)
			}
			if _, dup := seen[it.Name]; dup {
				return nil, fmt.Errorf("catalog: duplicate item %q in %s", it.Name, r.ID)
			}
			seen[it.Name] = struct{}{}
			menu = append(menu, it)
		}
		r.Menu = menu
		c.byID[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	return c, nil
}

// Restaurants returns every restaurant in declaration order.
func (c *Catalog) Restaurants() []Restaurant {
	out := make([]Restaurant, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.copyOf(c.byID[id]))
	}
	return out
}

// Lookup returns the restaurant registered under id.
func (c *Catalog) Lookup(id RestaurantID) (Restaurant, error) {
	r, ok := c.byID[id]
	if !ok {
		return Restaurant{}, fmt.Errorf("%w: %s", ErrUnknownRestaurant, id)
	}
	return c.copyOf(r), nil
}

// Has reports whether id is part of the catalog.
func (c *Catalog) Has(id RestaurantID) bool {
	_, ok := c.byID[id]
	return ok
}

// Item resolves a dish by name on the menu of restaurant id.
func (c *Catalog) Item(id RestaurantID, name string) (MenuItem, error) {
	r, ok := c.byID[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: %s", ErrUnknownRestaurant, id)
	}
	for _, it := range r.Menu {
		if it.Name == name {
			return it, nil
		}
	}
	return MenuItem{}, fmt.Errorf("%w: %q at %s", ErrUnknownItem, name, id)
}

func (c *Catalog) copyOf(r Restaurant) Restaurant {
	r.Menu = append([]MenuItem(nil), r.Menu...)
	return r
}

func rupees(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// DefaultCatalog returns the five restaurants served by the cafeteria.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Restaurant{
		{ID: "gourmet-palace", Name: "Gourmet Palace", Menu: []MenuItem{
			{Name: "Truffle Pasta", Price: rupees(450)},
			{Name: "Wagyu Steak", Price: rupees(1200)},
			{Name: "Lobster Bisque", Price: rupees(350)},
			{Name: "Chocolate Soufflé", Price: rupees(250)},
		}},
		{ID: "spice-garden", Name: "Spice Garden", Menu: []MenuItem{
			{Name: "Butter Chicken", Price: rupees(350)},
			{Name: "Paneer Tikka", Price: rupees(280)},
			{Name: "Biryani", Price: rupees(320)},
			{Name: "Gulab Jamun", Price: rupees(150)},
		}},
		{ID: "ocean-delights", Name: "Ocean Delights", Menu: []MenuItem{
			{Name: "Grilled Salmon", Price: rupees(520)},
			{Name: "Prawn Curry", Price: rupees(480)},
			{Name: "Seafood Platter", Price: rupees(950)},
			{Name: "Key Lime Pie", Price: rupees(220)},
		}},
		{ID: "rustic-kitchen", Name: "Rustic Kitchen", Menu: []MenuItem{
			{Name: "Wood-fired Pizza", Price: rupees(380)},
			{Name: "Risotto", Price: rupees(340)},
			{Name: "Lamb Chops", Price: rupees(560)},
			{Name: "Tiramisu", Price: rupees(240)},
		}},
		{ID: "urban-bistro", Name: "Urban Bistro", Menu: []MenuItem{
			{Name: "Avocado Toast", Price: rupees(280)},
			{Name: "Quinoa Bowl", Price: rupees(320)},
			{Name: "Gourmet Burger", Price: rupees(380)},
			{Name: "Cheesecake", Price: rupees(220)},
		}},
	})
	if err != nil {
		panic(err)
	}
	return c
}
