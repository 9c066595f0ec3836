package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func truffle(qty int) CartLine {
	return CartLine{Name: "Truffle Pasta", Price: decimal.NewFromInt(450), Quantity: qty}
}

func TestSubmitBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		details Details
	}{
		{"empty name", Details{Name: "  ", Restaurant: "gourmet-palace", Items: []CartLine{truffle(1)}}},
		{"missing restaurant", Details{Name: "Ana", Items: []CartLine{truffle(1)}}},
		{"unknown restaurant", Details{Name: "Ana", Restaurant: "nowhere", Items: []CartLine{truffle(1)}}},
		{"empty cart", Details{Name: "Ana", Restaurant: "gourmet-palace"}},
		{"item from another menu", Details{Name: "Ana", Restaurant: "spice-garden", Items: []CartLine{truffle(1)}}},
		{"tampered price", Details{Name: "Ana", Restaurant: "gourmet-palace", Items: []CartLine{
			{Name: "Truffle Pasta", Price: decimal.NewFromInt(1), Quantity: 1},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
			err := c.SubmitBooking(tt.details)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if c.Step() != StepBooking {
				t.Fatalf("step advanced to %s", c.Step())
			}
		})
	}
}

func TestSubmitBookingReportsEveryProblem(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	err := c.SubmitBooking(Details{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %v", ve.Messages)
	}
}

func TestStepsCannotBeSkipped(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	if err := c.SubmitSeats([]int{1}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := c.ProceedToPayment(context.Background(), &StubRedirector{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := c.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSeatsTotalsAtPayment(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	if err := c.SubmitBooking(Details{Name: "Ravi", Restaurant: "gourmet-palace", Items: []CartLine{truffle(2)}}); err != nil {
		t.Fatal(err)
	}
	if err := c.SubmitSeats([]int{3, 7, 12}); err != nil {
		t.Fatal(err)
	}
	if c.Step() != StepPayment {
		t.Fatalf("expected payment step, got %s", c.Step())
	}
	if !c.SeatsTotal().Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected seats total 3, got %s", c.SeatsTotal())
	}
	if !c.GrandTotal().Equal(c.CartTotal().Add(decimal.NewFromInt(3))) {
		t.Fatalf("grand total %s != cart %s + 3", c.GrandTotal(), c.CartTotal())
	}
}

func TestSubmitSeatsRejectsInvalidSelection(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	if err := c.SubmitBooking(Details{Name: "Ravi", Restaurant: "gourmet-palace", Items: []CartLine{truffle(1)}}); err != nil {
		t.Fatal(err)
	}
	for _, seats := range [][]int{nil, {0}, {21}, {2, 2}} {
		if err := c.SubmitSeats(seats); !IsValidation(err) {
			t.Errorf("seats %v: expected validation error, got %v", seats, err)
		}
	}
	if c.Step() != StepSeats {
		t.Fatalf("step advanced to %s", c.Step())
	}
}

func TestEndToEndBooking(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	if err := c.SubmitBooking(Details{Name: "Ana", Restaurant: "gourmet-palace", Items: []CartLine{truffle(1)}}); err != nil {
		t.Fatal(err)
	}
	if err := c.SubmitSeats([]int{1, 2}); err != nil {
		t.Fatal(err)
	}
	if !c.GrandTotal().Equal(decimal.NewFromInt(452)) {
		t.Fatalf("expected 452, got %s", c.GrandTotal())
	}

	stub := &StubRedirector{}
	rd, err := c.ProceedToPayment(context.Background(), stub)
	if err != nil {
		t.Fatal(err)
	}
	if rd.Reference == "" || !c.Completed() {
		t.Fatalf("payment not recorded: %+v", rd)
	}
	calls := stub.Calls()
	if len(calls) != 1 || calls[0].RestaurantName != "Gourmet Palace" || !calls[0].GrandTotal.Equal(decimal.NewFromInt(452)) {
		t.Fatalf("unexpected checkout %+v", calls)
	}
	if _, err := c.ProceedToPayment(context.Background(), stub); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second payment: expected ErrInvalidTransition, got %v", err)
	}
	if err := c.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("back after payment: expected ErrInvalidTransition, got %v", err)
	}
}

type failingRedirector struct{}

func (failingRedirector) RedirectToPayment(context.Context, Checkout) (Redirect, error) {
	return Redirect{}, errors.New("broker down")
}

func TestFailedRedirectCanBeRetried(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	_ = c.SubmitBooking(Details{Name: "Ana", Restaurant: "gourmet-palace", Items: []CartLine{truffle(1)}})
	_ = c.SubmitSeats([]int{1})

	if _, err := c.ProceedToPayment(context.Background(), failingRedirector{}); err == nil {
		t.Fatal("expected redirect error")
	}
	if c.Completed() {
		t.Fatal("failed redirect marked booking completed")
	}
	if _, err := c.ProceedToPayment(context.Background(), &StubRedirector{}); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestBackKeepsRecord(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	_ = c.SubmitBooking(Details{Name: "Ana", Restaurant: "gourmet-palace", Items: []CartLine{truffle(1)}})
	_ = c.SubmitSeats([]int{4})

	if err := c.Back(); err != nil || c.Step() != StepSeats {
		t.Fatalf("back from payment: step=%s err=%v", c.Step(), err)
	}
	if err := c.Back(); err != nil || c.Step() != StepBooking {
		t.Fatalf("back from seats: step=%s err=%v", c.Step(), err)
	}
	rec := c.Record()
	if rec.Name != "Ana" || len(rec.Seats) != 1 {
		t.Fatalf("record lost on back: %+v", rec)
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := NewCoordinator(DefaultCatalog(), DefaultSeatPolicy())
	_ = c.SubmitBooking(Details{Name: "Ana", Restaurant: "gourmet-palace", Items: []CartLine{truffle(1)}})

	restored, err := Restore(DefaultCatalog(), DefaultSeatPolicy(), c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if restored.Step() != StepSeats || restored.Record().Name != "Ana" {
		t.Fatalf("unexpected restored state %+v", restored.Snapshot())
	}

	if _, err := Restore(DefaultCatalog(), DefaultSeatPolicy(), State{Step: "checkout"}); err == nil {
		t.Fatal("expected error for unknown step")
	}
	bad := State{Step: StepSeats, Record: Record{Restaurant: "closed-diner"}}
	if _, err := Restore(DefaultCatalog(), DefaultSeatPolicy(), bad); !errors.Is(err, ErrUnknownRestaurant) {
		t.Fatalf("expected ErrUnknownRestaurant, got %v", err)
	}
}
