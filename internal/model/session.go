package model

import (
	"time"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
)

// BookingSession is the state of one client's booking between requests.
// Coordinator holds the workflow and the accumulated record; Cart and
// SeatSelection are the in-progress sub-forms, owned by the session until
// they are submitted to the coordinator.
//
// Fields:
//  ID             – opaque session identifier (UUID).
//  Coordinator    – snapshot of the booking coordinator.
//  CartRestaurant – restaurant the cart's dishes come from.
//  Cart           – dishes picked on the first form.
//  SeatSelection  – seats toggled on the second form.
//  CreatedAt      – when the session was opened.
//  UpdatedAt      – last mutation.
type BookingSession struct {
	ID             string               `json:"id"`
	Coordinator    booking.State        `json:"coordinator"`
	CartRestaurant booking.RestaurantID `json:"cart_restaurant,omitempty"`
	Cart           []booking.CartLine   `json:"cart"`
	SeatSelection  []int                `json:"seat_selection"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
