package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt records a booking that was handed to the payment side.  It is a
// ledger entry, not a payment: the gateway behind the hand-off is out of
// scope.  This struct corresponds to a row in the `receipts` table plus its
// lines and seats.
//
// Fields:
//  ID             – primary key identifier.
//  Reference      – payment reference returned by the redirector.
//  SessionID      – booking session that produced the receipt.
//  CustomerName   – name entered on the booking form.
//  RestaurantID   – catalog id of the restaurant.
//  RestaurantName – display name at the time of booking.
//  Lines          – ordered dishes.
//  Seats          – seat numbers, ascending.
//  CartTotal      – food total.
//  SeatsTotal     – seat charge.
//  GrandTotal     – CartTotal + SeatsTotal.
//  CreatedAt      – when the receipt was stored.
type Receipt struct {
	ID             uint64          `json:"-"`
	Reference      string          `json:"reference"`
	SessionID      string          `json:"session_id"`
	CustomerName   string          `json:"customer_name"`
	RestaurantID   string          `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant"`
	Lines          []ReceiptLine   `json:"lines"`
	Seats          []int           `json:"seats"`
	CartTotal      decimal.Decimal `json:"cart_total"`
	SeatsTotal     decimal.Decimal `json:"seats_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReceiptLine is one dish on a receipt (`receipt_lines`).
type ReceiptLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}
