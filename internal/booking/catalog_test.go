package booking

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultCatalogLookup(t *testing.T) {
	c := DefaultCatalog()
	if n := len(c.Restaurants()); n != 5 {
		t.Fatalf("expected 5 restaurants, got %d", n)
	}
	r, err := c.Lookup("gourmet-palace")
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "Gourmet Palace" || len(r.Menu) != 4 {
		t.Fatalf("unexpected restaurant %+v", r)
	}
	if _, err := c.Lookup("Gourmet Palace"); !errors.Is(err, ErrUnknownRestaurant) {
		t.Fatalf("display name must not resolve, got %v", err)
	}
}

func TestCatalogItem(t *testing.T) {
	c := DefaultCatalog()
	it, err := c.Item("spice-garden", "Biryani")
	if err != nil {
		t.Fatal(err)
	}
	if !it.Price.Equal(decimal.NewFromInt(320)) {
		t.Fatalf("unexpected price %s", it.Price)
	}
	if _, err := c.Item("spice-garden", "Truffle Pasta"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if _, err := c.Item("nowhere", "Biryani"); !errors.Is(err, ErrUnknownRestaurant) {
		t.Fatalf("expected ErrUnknownRestaurant, got %v", err)
	}
}

func TestNewCatalogFailsFast(t *testing.T) {
	ok := MenuItem{Name: "Soup", Price: decimal.NewFromInt(90)}
	tests := []struct {
		name string
		in   []Restaurant
	}{
		{"empty id", []Restaurant{{Name: "X", Menu: []MenuItem{ok}}}},
		{"empty name", []Restaurant{{ID: "x", Menu: []MenuItem{ok}}}},
		{"duplicate id", []Restaurant{{ID: "x", Name: "X", Menu: []MenuItem{ok}}, {ID: "x", Name: "Y", Menu: []MenuItem{ok}}}},
		{"empty menu", []Restaurant{{ID: "x", Name: "X"}}},
		{"zero price", []Restaurant{{ID: "x", Name: "X", Menu: []MenuItem{{Name: "Free", Price: decimal.Zero}}}}},
		{"duplicate item", []Restaurant{{ID: "x", Name: "X", Menu: []MenuItem{ok, ok}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog(tt.in); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	r, _ := c.Lookup("urban-bistro")
	r.Menu[0].Name = "changed"
	again, _ := c.Lookup("urban-bistro")
	if again.Menu[0].Name != "Avocado Toast" {
		t.Fatal("catalog menu was mutated through Lookup")
	}
}
