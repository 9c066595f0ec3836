package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Step is the position of a booking in the workflow.
type Step string

const (
	StepBooking Step = "booking"
	StepSeats   Step = "seats"
	StepPayment Step = "payment"
)

// Valid reports whether s is one of the three known steps.
func (s Step) Valid() bool {
	switch s {
	case StepBooking, StepSeats, StepPayment:
		return true
	}
	return false
}

// Record is the booking accumulated across the three steps.
type Record struct {
	Name       string       `json:"name"`
	Restaurant RestaurantID `json:"restaurant"`
	Items      []CartLine   `json:"items"`
	Seats      []int        `json:"seats"`
}

func (r Record) clone() Record {
	r.Items = append([]CartLine(nil), r.Items...)
	r.Seats = append([]int(nil), r.Seats...)
	return r
}

// Details is the result of the first form: who is booking, where, and
// which dishes.
type Details struct {
	Name       string
	Restaurant RestaurantID
	Items      []CartLine
}

// State is the serialisable form of a Coordinator.
type State struct {
	Step       Step   `json:"step"`
	Record     Record `json:"record"`
	Completed  bool   `json:"completed"`
	PaymentRef string `json:"payment_ref,omitempty"`
}

// Coordinator owns the booking record and drives it through
// booking → seats → payment.  Sub-forms never touch the record directly;
// they hand finished results to SubmitBooking and SubmitSeats.
type Coordinator struct {
	catalog *Catalog
	policy  SeatPolicy
	state   State
}

// NewCoordinator starts a booking at StepBooking.
func NewCoordinator(catalog *Catalog, policy SeatPolicy) *Coordinator {
	return &Coordinator{catalog: catalog, policy: policy, state: State{Step: StepBooking}}
}

// Restore rebuilds a Coordinator from a snapshot.
func Restore(catalog *Catalog, policy SeatPolicy, st State) (*Coordinator, error) {
	if !st.Step.Valid() {
		return nil, fmt.Errorf("restore: unknown step %q", st.Step)
	}
	if st.Record.Restaurant != "" && !catalog.Has(st.Record.Restaurant) {
		return nil, fmt.Errorf("restore: %w: %s", ErrUnknownRestaurant, st.Record.Restaurant)
	}
	st.Record = st.Record.clone()
	return &Coordinator{catalog: catalog, policy: policy, state: st}, nil
}

// Snapshot returns a copy of the coordinator's state.
func (c *Coordinator) Snapshot() State {
	st := c.state
	st.Record = st.Record.clone()
	return st
}

func (c *Coordinator) Step() Step { return c.state.Step }

// Record returns a copy of the booking record.
func (c *Coordinator) Record() Record { return c.state.Record.clone() }

// Completed reports whether the booking was handed to payment.
func (c *Coordinator) Completed() bool { return c.state.Completed }

func (c *Coordinator) Policy() SeatPolicy { return c.policy }

// SubmitBooking accepts the first form and moves to StepSeats.  Name must be
// non-blank, the restaurant must be in the catalog and at least one dish
// from its menu must be ordered.  Every failed precondition is reported in a
// single ValidationError and the step does not change.
func (c *Coordinator) SubmitBooking(d Details) error {
	if c.state.Step != StepBooking {
		return fmt.Errorf("%w: details submitted at step %s", ErrInvalidTransition, c.state.Step)
	}
	ve := &ValidationError{}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		ve.add("name is required")
	}
	var menu map[string]MenuItem
	switch r, err := c.catalog.Lookup(d.Restaurant); {
	case d.Restaurant == "":
		ve.add("restaurant is required")
	case err != nil:
		ve.add(fmt.Sprintf("restaurant %q is not available", d.Restaurant))
	default:
		menu = make(map[string]MenuItem, len(r.Menu))
		for _, it := range r.Menu {
			menu[it.Name] = it
		}
	}
	cart := NewCart(d.Items)
	if cart.Len() == 0 {
		ve.add("add at least one item to your cart")
	}
	if menu != nil {
		for _, l := range cart.Lines() {
			it, ok := menu[l.Name]
			if !ok {
				ve.add(fmt.Sprintf("%q is not on the menu", l.Name))
				continue
			}
			if !it.Price.Equal(l.Price) {
				ve.add(fmt.Sprintf("price of %q does not match the menu", l.Name))
			}
		}
	}
	if err := ve.orNil(); err != nil {
		return err
	}
	c.state.Record.Name = name
	c.state.Record.Restaurant = d.Restaurant
	c.state.Record.Items = cart.Lines()
	c.state.Step = StepSeats
	return nil
}

// SubmitSeats accepts the seat selection and moves to StepPayment.
func (c *Coordinator) SubmitSeats(seats []int) error {
	if c.state.Step != StepSeats {
		return fmt.Errorf("%w: seats submitted at step %s", ErrInvalidTransition, c.state.Step)
	}
	if err := c.policy.Validate(seats); err != nil {
		return err
	}
	c.state.Record.Seats = NewSeatPicker(c.policy, seats).Selected()
	c.state.Step = StepPayment
	return nil
}

// Back returns to the previous step keeping everything entered so far.
func (c *Coordinator) Back() error {
	if c.state.Completed {
		return fmt.Errorf("%w: booking already sent to payment", ErrInvalidTransition)
	}
	switch c.state.Step {
	case StepSeats:
		c.state.Step = StepBooking
	case StepPayment:
		c.state.Step = StepSeats
	default:
		return fmt.Errorf("%w: no step before %s", ErrInvalidTransition, c.state.Step)
	}
	return nil
}

// CartTotal is the food total of the record.
func (c *Coordinator) CartTotal() decimal.Decimal {
	return NewCart(c.state.Record.Items).Total()
}

// SeatsTotal prices the record's seats by count.
func (c *Coordinator) SeatsTotal() decimal.Decimal {
	return c.policy.Total(len(c.state.Record.Seats))
}

// GrandTotal is CartTotal + SeatsTotal.
func (c *Coordinator) GrandTotal() decimal.Decimal {
	return c.CartTotal().Add(c.SeatsTotal())
}

// Checkout builds the payload handed to the payment collaborator.
func (c *Coordinator) Checkout() Checkout {
	co := Checkout{
		Record:     c.Record(),
		CartTotal:  c.CartTotal(),
		SeatsTotal: c.SeatsTotal(),
		GrandTotal: c.GrandTotal(),
	}
	if r, err := c.catalog.Lookup(c.state.Record.Restaurant); err == nil {
		co.RestaurantName = r.Name
	}
	return co
}

// ProceedToPayment hands the finished booking to redirector.  It is only
// allowed at StepPayment and only once; a failed redirect can be retried.
func (c *Coordinator) ProceedToPayment(ctx context.Context, redirector PaymentRedirector) (Redirect, error) {
	if c.state.Step != StepPayment {
		return Redirect{}, fmt.Errorf("%w: payment requested at step %s", ErrInvalidTransition, c.state.Step)
	}
	if c.state.Completed {
		return Redirect{}, fmt.Errorf("%w: booking already sent to payment", ErrInvalidTransition)
	}
	if redirector == nil {
		return Redirect{}, errors.New("no payment redirector configured")
	}
	rd, err := redirector.RedirectToPayment(ctx, c.Checkout())
	if err != nil {
		return Redirect{}, fmt.Errorf("redirect to payment: %w", err)
	}
	c.state.Completed = true
	c.state.PaymentRef = rd.Reference
	return rd, nil
}
