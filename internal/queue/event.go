// Package queue defines the payment hand-off message and the background
// consumer that records every hand-off in logs/payments.log.
package queue

import "github.com/shopspring/decimal"

// PaymentQueueName is the durable queue payment requests are published to.
const PaymentQueueName = "booking.payment"

// PaymentRequestedEvent is published when a finished booking is sent to the
// payment side.  It carries everything a gateway integration would need
// without reading the booking session.
type PaymentRequestedEvent struct {
	Reference    string          `json:"reference"`
	SessionID    string          `json:"session_id"`
	CustomerName string          `json:"customer_name"`
	RestaurantID string          `json:"restaurant_id"`
	Restaurant   string          `json:"restaurant"`
	Items        []EventLine     `json:"items"`
	Seats        []int           `json:"seats"`
	CartTotal    decimal.Decimal `json:"cart_total"`
	SeatsTotal   decimal.Decimal `json:"seats_total"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Currency     string          `json:"currency"`
	RequestedAt  string          `json:"requested_at"`
}

// EventLine is one dish in a PaymentRequestedEvent.
type EventLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}
