package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Checkout is what the payment side receives once a booking is complete.
type Checkout struct {
	Record         Record          `json:"record"`
	RestaurantName string          `json:"restaurant_name"`
	CartTotal      decimal.Decimal `json:"cart_total"`
	SeatsTotal     decimal.Decimal `json:"seats_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// Redirect tells the client where the booking went.
type Redirect struct {
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// PaymentRedirector is the boundary to a payment gateway.  No gateway is
// integrated; implementations only announce that a checkout is waiting.
type PaymentRedirector interface {
	RedirectToPayment(ctx context.Context, co Checkout) (Redirect, error)
}

// StubRedirector accepts every checkout and remembers it.
type StubRedirector struct {
	mu    sync.Mutex
	calls []Checkout
}

func (s *StubRedirector) RedirectToPayment(_ context.Context, co Checkout) (Redirect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, co)
	return Redirect{
		Reference: fmt.Sprintf("stub-%d", len(s.calls)),
		Message:   "Redirecting to payment gateway...",
	}, nil
}

// Calls returns the checkouts received so far.
func (s *StubRedirector) Calls() []Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Checkout(nil), s.calls...)
}
