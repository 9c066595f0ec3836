// Package service runs the booking workflow for stateless HTTP clients.
// Each request loads a session, restores the coordinator, applies exactly
// one operation and saves the session back with a fresh expiry.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/model"
	"github.com/iliyamo/cafeteria-booking/internal/repository"
)

// BookingService bundles the catalog, seat policy and stores needed to drive
// booking sessions.
type BookingService struct {
	Catalog   *booking.Catalog
	Policy    booking.SeatPolicy
	Sessions  repository.SessionStore
	Receipts  repository.ReceiptStore
	Publisher EventPublisher
	TTL       time.Duration
	Logger    *log.Logger

	locks *keyedLocks
	now   func() time.Time
}

// NewBookingService constructs a BookingService and panics if a dependency
// is missing.
func NewBookingService(catalog *booking.Catalog, policy booking.SeatPolicy, sessions repository.SessionStore,
	receipts repository.ReceiptStore, publisher EventPublisher, ttl time.Duration, logger *log.Logger) *BookingService {
	if catalog == nil || sessions == nil || receipts == nil || publisher == nil || logger == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &BookingService{
		Catalog:   catalog,
		Policy:    policy,
		Sessions:  sessions,
		Receipts:  receipts,
		Publisher: publisher,
		TTL:       ttl,
		Logger:    logger,
		locks:     newKeyedLocks(),
		now:       time.Now,
	}
}

// CartView is the in-progress cart of the first form.
type CartView struct {
	Restaurant booking.RestaurantID `json:"restaurant,omitempty"`
	Lines      []booking.CartLine   `json:"lines"`
	Total      decimal.Decimal      `json:"total"`
}

// SeatView is the in-progress selection of the second form.
type SeatView struct {
	Selected []int           `json:"selected"`
	PoolSize int             `json:"pool_size"`
	Price    decimal.Decimal `json:"price_per_seat"`
	Total    decimal.Decimal `json:"total"`
}

// Totals are computed from the coordinator's record.
type Totals struct {
	Cart  decimal.Decimal `json:"cart"`
	Seats decimal.Decimal `json:"seats"`
	Grand decimal.Decimal `json:"grand"`
}

// View is the client-facing state of a booking session.
type View struct {
	ID         string         `json:"id"`
	Step       booking.Step   `json:"step"`
	Record     booking.Record `json:"record"`
	Cart       CartView       `json:"cart"`
	Seats      SeatView       `json:"seats"`
	Totals     Totals         `json:"totals"`
	Completed  bool           `json:"completed"`
	PaymentRef string         `json:"payment_ref,omitempty"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// PaymentResult is returned when a booking is handed to payment.
type PaymentResult struct {
	View     View             `json:"booking"`
	Redirect booking.Redirect `json:"redirect"`
	Receipt  model.Receipt    `json:"receipt"`
}

// Start opens a new session at the booking step.
func (s *BookingService) Start(ctx context.Context) (View, error) {
	now := s.now().UTC()
	sess := model.BookingSession{
		ID:          uuid.NewString(),
		Coordinator: booking.NewCoordinator(s.Catalog, s.Policy).Snapshot(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Sessions.Save(ctx, sess, s.TTL); err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}
	s.Logger.Debugf("booking: session %s opened", sess.ID)
	coord, _ := booking.Restore(s.Catalog, s.Policy, sess.Coordinator)
	return s.view(sess, coord), nil
}

// Get returns the current state of a session.
func (s *BookingService) Get(ctx context.Context, id string) (View, error) {
	sess, coord, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(sess, coord), nil
}

// AddItem puts one unit of a dish in the session cart.  Picking a dish from a
// different restaurant starts a new cart for that restaurant.
func (s *BookingService) AddItem(ctx context.Context, id string, restaurant booking.RestaurantID, name string) (View, error) {
	return s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if err := requireStep(coord, booking.StepBooking, "cart"); err != nil {
			return err
		}
		it, err := s.Catalog.Item(restaurant, name)
		if err != nil {
			return err
		}
		if sess.CartRestaurant != restaurant {
			sess.Cart = nil
			sess.CartRestaurant = restaurant
		}
		cart := booking.NewCart(sess.Cart)
		cart.AddItem(it)
		sess.Cart = cart.Lines()
		return nil
	})
}

// RemoveItem takes one unit of a dish out of the session cart.
func (s *BookingService) RemoveItem(ctx context.Context, id, name string) (View, error) {
	return s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if err := requireStep(coord, booking.StepBooking, "cart"); err != nil {
			return err
		}
		cart := booking.NewCart(sess.Cart)
		cart.RemoveItem(name)
		sess.Cart = cart.Lines()
		return nil
	})
}

// SubmitDetails submits the first form: the customer's name, the restaurant
// and the session cart.  An empty restaurant means the cart's restaurant.
func (s *BookingService) SubmitDetails(ctx context.Context, id, name string, restaurant booking.RestaurantID) (View, error) {
	return s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if restaurant == "" {
			restaurant = sess.CartRestaurant
		}
		if err := coord.SubmitBooking(booking.Details{Name: name, Restaurant: restaurant, Items: sess.Cart}); err != nil {
			return err
		}
		sess.SeatSelection = coord.Record().Seats
		return nil
	})
}

// ToggleSeat flips one seat in the session's seat selection.
func (s *BookingService) ToggleSeat(ctx context.Context, id string, seat int) (View, error) {
	return s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if err := requireStep(coord, booking.StepSeats, "seat selection"); err != nil {
			return err
		}
		picker := booking.NewSeatPicker(s.Policy, sess.SeatSelection)
		if err := picker.ToggleSeat(seat); err != nil {
			return err
		}
		sess.SeatSelection = picker.Selected()
		return nil
	})
}

// SubmitSeats submits the seat selection and moves the booking to payment.
func (s *BookingService) SubmitSeats(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if err := requireStep(coord, booking.StepSeats, "seat selection"); err != nil {
			return err
		}
		seats, err := booking.NewSeatPicker(s.Policy, sess.SeatSelection).Submit()
		if err != nil {
			return err
		}
		if err := coord.SubmitSeats(seats); err != nil {
			return err
		}
		sess.SeatSelection = nil
		return nil
	})
}

// Back returns the session to the previous step.  Returning to the seat step
// preloads the seats already on the record.
func (s *BookingService) Back(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if err := coord.Back(); err != nil {
			return err
		}
		if coord.Step() == booking.StepSeats {
			sess.SeatSelection = coord.Record().Seats
		}
		return nil
	})
}

// Pay hands the finished booking to the payment publisher and records a
// receipt.  A receipt that fails to save is logged; the hand-off itself has
// already happened and is not undone.
//
// The payment reference is derived from the session ID.  When a receipt for
// it already exists the hand-off went through but the session save did not,
// so the booking is completed again without publishing a second request.
func (s *BookingService) Pay(ctx context.Context, id string) (PaymentResult, error) {
	var res PaymentResult
	v, err := s.mutate(ctx, id, func(sess *model.BookingSession, coord *booking.Coordinator) error {
		if err := requireStep(coord, booking.StepPayment, "payment"); err != nil {
			return err
		}
		rdr := sessionRedirector{
			reference: PaymentReference(sess.ID),
			sessionID: sess.ID,
			publisher: s.Publisher,
			now:       s.now,
		}
		prior, err := s.Receipts.GetByReference(ctx, rdr.reference)
		switch {
		case err == nil:
			rdr.replay = true
		case !errors.Is(err, repository.ErrReceiptNotFound):
			return fmt.Errorf("lookup receipt: %w", err)
		}

		rd, err := coord.ProceedToPayment(ctx, rdr)
		if err != nil {
			return err
		}
		res.Redirect = rd
		if rdr.replay {
			res.Receipt = prior
			s.Logger.Warnf("booking: session %s already handed to payment as %s, completing without publishing",
				sess.ID, rd.Reference)
			return nil
		}
		res.Receipt = receiptFor(sess.ID, rd.Reference, coord.Checkout())
		if err := s.Receipts.Create(ctx, &res.Receipt); err != nil {
			s.Logger.Errorf("booking: session %s: store receipt %s: %v", sess.ID, rd.Reference, err)
		}
		s.Logger.Infof("booking: session %s handed to payment as %s (total %s %s)",
			sess.ID, rd.Reference, res.Receipt.GrandTotal.StringFixed(2), Currency)
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	res.View = v
	return res, nil
}

// Cancel discards a session, like resetting the form.  Receipts of
// completed bookings are kept.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrSessionNotFound
	}
	unlock := s.locks.Lock(id)
	defer unlock()
	if _, err := s.Sessions.Get(ctx, id); err != nil {
		return err
	}
	s.Logger.Debugf("booking: session %s cancelled", id)
	return s.Sessions.Delete(ctx, id)
}

// Receipt looks up a receipt by payment reference.
func (s *BookingService) Receipt(ctx context.Context, ref string) (model.Receipt, error) {
	return s.Receipts.GetByReference(ctx, ref)
}

func receiptFor(sessionID, ref string, co booking.Checkout) model.Receipt {
	lines := make([]model.ReceiptLine, 0, len(co.Record.Items))
	for _, l := range co.Record.Items {
		lines = append(lines, model.ReceiptLine{Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	return model.Receipt{
		Reference:      ref,
		SessionID:      sessionID,
		CustomerName:   co.Record.Name,
		RestaurantID:   string(co.Record.Restaurant),
		RestaurantName: co.RestaurantName,
		Lines:          lines,
		Seats:          append([]int(nil), co.Record.Seats...),
		CartTotal:      co.CartTotal,
		SeatsTotal:     co.SeatsTotal,
		GrandTotal:     co.GrandTotal,
	}
}

func requireStep(coord *booking.Coordinator, want booking.Step, what string) error {
	if coord.Completed() || coord.Step() != want {
		return fmt.Errorf("%w: %s is only editable at step %s", booking.ErrInvalidTransition, what, want)
	}
	return nil
}

func (s *BookingService) load(ctx context.Context, id string) (model.BookingSession, *booking.Coordinator, error) {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return sess, nil, err
	}
	coord, err := booking.Restore(s.Catalog, s.Policy, sess.Coordinator)
	if err != nil {
		// a session that no longer fits the catalog cannot be resumed
		return sess, nil, fmt.Errorf("%w: %v", repository.ErrSessionNotFound, err)
	}
	return sess, coord, nil
}

// mutate runs fn under the session lock and saves the result.  Nothing is
// saved when fn fails, so a rejected operation leaves the session as it was.
func (s *BookingService) mutate(ctx context.Context, id string, fn func(*model.BookingSession, *booking.Coordinator) error) (View, error) {
	if _, err := uuid.Parse(id); err != nil {
		return View{}, repository.ErrSessionNotFound
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, coord, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := fn(&sess, coord); err != nil {
		return View{}, err
	}
	sess.Coordinator = coord.Snapshot()
	sess.UpdatedAt = s.now().UTC()
	if err := s.Sessions.Save(ctx, sess, s.TTL); err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}
	return s.view(sess, coord), nil
}

func (s *BookingService) view(sess model.BookingSession, coord *booking.Coordinator) View {
	cart := booking.NewCart(sess.Cart)
	picker := booking.NewSeatPicker(s.Policy, sess.SeatSelection)
	st := coord.Snapshot()
	return View{
		ID:     sess.ID,
		Step:   st.Step,
		Record: st.Record,
		Cart: CartView{
			Restaurant: sess.CartRestaurant,
			Lines:      cart.Lines(),
			Total:      cart.Total(),
		},
		Seats: SeatView{
			Selected: picker.Selected(),
			PoolSize: s.Policy.PoolSize,
			Price:    s.Policy.Price,
			Total:    picker.SeatsTotal(),
		},
		Totals:     totals(st.Step, coord),
		Completed:  st.Completed,
		PaymentRef: st.PaymentRef,
		ExpiresAt:  sess.UpdatedAt.Add(s.TTL),
	}
}

// totals prices the record.  Seats on the record only count once they have
// been submitted for the current pass, so going back drops them from the
// totals until the seat form is submitted again.
func totals(step booking.Step, coord *booking.Coordinator) Totals {
	t := Totals{Cart: coord.CartTotal(), Seats: decimal.Zero}
	if step == booking.StepPayment {
		t.Seats = coord.SeatsTotal()
	}
	t.Grand = t.Cart.Add(t.Seats)
	return t
}

// IsNotFound reports whether err means the session or receipt does not
// exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrReceiptNotFound)
}
