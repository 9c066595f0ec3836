package booking

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// DefaultSeatPool is the number of selectable seats in the dining hall.
	DefaultSeatPool = 20
)

// DefaultSeatPrice is the flat placeholder charge per seat, in rupees.
var DefaultSeatPrice = decimal.NewFromInt(1)

// SeatPolicy fixes the seat pool and the per-seat charge.
type SeatPolicy struct {
	PoolSize int
	Price    decimal.Decimal
}

// DefaultSeatPolicy is a pool of 20 seats at ₹1 each.
func DefaultSeatPolicy() SeatPolicy {
	return SeatPolicy{PoolSize: DefaultSeatPool, Price: DefaultSeatPrice}
}

// InRange reports whether seat belongs to the pool [1, PoolSize].
func (p SeatPolicy) InRange(seat int) bool { return seat >= 1 && seat <= p.PoolSize }

// Total is count × Price.
func (p SeatPolicy) Total(count int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(count)))
}

// Validate checks seats against the pool: the list must be non-empty, in
// range and free of duplicates.
func (p SeatPolicy) Validate(seats []int) error {
	ve := &ValidationError{}
	if len(seats) == 0 {
		ve.add("no seats selected")
	}
	seen := make(map[int]struct{}, len(seats))
	for _, s := range seats {
		if !p.InRange(s) {
			ve.add(fmt.Sprintf("seat %d is outside 1..%d", s, p.PoolSize))
			continue
		}
		if _, dup := seen[s]; dup {
			ve.add(fmt.Sprintf("seat %d selected twice", s))
			continue
		}
		seen[s] = struct{}{}
	}
	return ve.orNil()
}

// SeatPicker holds an in-progress seat selection.  The selection is a set;
// Submit hands it to the caller and clears the picker.
type SeatPicker struct {
	policy   SeatPolicy
	selected map[int]struct{}
}

// NewSeatPicker returns an empty picker for policy, preselecting any valid
// seats in initial.
func NewSeatPicker(policy SeatPolicy, initial []int) *SeatPicker {
	sp := &SeatPicker{policy: policy, selected: make(map[int]struct{})}
	for _, s := range initial {
		if policy.InRange(s) {
			sp.selected[s] = struct{}{}
		}
	}
	return sp
}

// ToggleSeat adds seat to the selection, or removes it when already
// selected.  Seats outside the pool are rejected with ErrSeatOutOfRange and
// leave the selection untouched.
func (sp *SeatPicker) ToggleSeat(seat int) error {
	if !sp.policy.InRange(seat) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrSeatOutOfRange, seat, sp.policy.PoolSize)
	}
	if _, ok := sp.selected[seat]; ok {
		delete(sp.selected, seat)
		return nil
	}
	sp.selected[seat] = struct{}{}
	return nil
}

// Selected returns the current selection in ascending order.
func (sp *SeatPicker) Selected() []int {
	out := make([]int, 0, len(sp.selected))
	for s := range sp.selected {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// SeatsTotal is the number of selected seats times the per-seat price.
func (sp *SeatPicker) SeatsTotal() decimal.Decimal { return sp.policy.Total(len(sp.selected)) }

// Submit yields the selection and resets the picker.  An empty selection
// fails with a ValidationError and keeps the picker as it was.
func (sp *SeatPicker) Submit() ([]int, error) {
	if len(sp.selected) == 0 {
		return nil, &ValidationError{Messages: []string{"no seats selected"}}
	}
	seats := sp.Selected()
	sp.selected = make(map[int]struct{})
	return seats, nil
}
