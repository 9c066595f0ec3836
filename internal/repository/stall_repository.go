package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/cafeteria-booking/internal/model"
)

// StallRepo keeps the cafeteria stalls and their live queue lengths.  Queue
// lengths are reported by staff and are not worth persisting: a restart
// resets them to the seed values.
type StallRepo struct {
	mu     sync.RWMutex
	stalls map[uint64]model.Stall
}

// NewStallRepo returns a repo seeded with stalls.
func NewStallRepo(stalls []model.Stall) *StallRepo {
	r := &StallRepo{stalls: make(map[uint64]model.Stall, len(stalls))}
	for _, s := range stalls {
		s.MenuItems = append([]string(nil), s.MenuItems...)
		r.stalls[s.ID] = s
	}
	return r
}

// DefaultStalls are the five counters of the cafeteria floor.
func DefaultStalls() []model.Stall {
	return []model.Stall{
		{ID: 1, Name: "Pizza Station", QueueLength: 12, MenuItems: []string{"Margherita", "Pepperoni", "Vegetarian"}},
		{ID: 2, Name: "Burger Joint", QueueLength: 5, MenuItems: []string{"Cheeseburger", "Veggie Burger", "Chicken Burger"}},
		{ID: 3, Name: "Salad Bar", QueueLength: 3, MenuItems: []string{"Caesar Salad", "Greek Salad", "Garden Salad"}},
		{ID: 4, Name: "Pasta Corner", QueueLength: 8, MenuItems: []string{"Spaghetti", "Fettuccine", "Penne Arrabiata"}},
		{ID: 5, Name: "Sushi Station", QueueLength: 15, MenuItems: []string{"California Roll", "Salmon Nigiri", "Vegetable Roll"}},
	}
}

// List returns all stalls ordered by id.
func (r *StallRepo) List(_ context.Context) []model.Stall {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Stall, 0, len(r.stalls))
	for _, s := range r.stalls {
		s.MenuItems = append([]string(nil), s.MenuItems...)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a stall by id.
func (r *StallRepo) Get(_ context.Context, id uint64) (model.Stall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stalls[id]
	if !ok {
		return model.Stall{}, ErrStallNotFound
	}
	s.MenuItems = append([]string(nil), s.MenuItems...)
	return s, nil
}

// SetQueueLength updates the queue length of a stall and returns it.
func (r *StallRepo) SetQueueLength(_ context.Context, id uint64, n int) (model.Stall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stalls[id]
	if !ok {
		return model.Stall{}, ErrStallNotFound
	}
	s.QueueLength = n
	r.stalls[id] = s
	s.MenuItems = append([]string(nil), s.MenuItems...)
	return s, nil
}

// Busiest returns the stall with the longest queue; the lowest id wins a
// tie.  ok is false when there are no stalls.
func (r *StallRepo) Busiest(ctx context.Context) (model.Stall, bool) {
	var best model.Stall
	found := false
	for _, s := range r.List(ctx) {
		if !found || s.QueueLength > best.QueueLength {
			best, found = s, true
		}
	}
	return best, found
}
