package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/queue"
)

// Currency of every price in the catalog.
const Currency = "INR"

// RedirectMessage is what the client shows after handing off a booking.
const RedirectMessage = "Redirecting to payment gateway..."

// EventPublisher delivers payment requests to whatever sits behind the
// payment seam.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.PaymentRequestedEvent) error
}

// AMQPPublisher publishes payment requests to the durable booking.payment
// queue.  A connection is opened per message; hand-offs happen once per
// booking so the dial cost does not matter.
type AMQPPublisher struct {
	URL    string
	Logger *log.Logger
}

// Publish never panics; errors are logged and returned so the caller can
// leave the booking at the payment step and let the client retry.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.PaymentRequestedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Logger.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so requests survive broker restarts.
	if _, err := ch.QueueDeclare(queue.PaymentQueueName, true, false, false, false, nil); err != nil {
		p.Logger.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.Reference,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.PaymentQueueName, false, false, pub); err != nil {
		p.Logger.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// LogPublisher only logs payment requests.  It backs PAYMENT_MODE=stub.
type LogPublisher struct {
	Logger *log.Logger
}

func (p *LogPublisher) Publish(_ context.Context, ev queue.PaymentRequestedEvent) error {
	p.Logger.Infof("payment stub: %s", queue.FormatLine(ev))
	return nil
}

// PaymentReference is the payment reference of a session.  It is stable so
// a retried hand-off carries the same reference as the first attempt.
func PaymentReference(sessionID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("payment:"+sessionID)).String()
}

// sessionRedirector is the booking.PaymentRedirector handed to the
// coordinator for one session.  It turns the checkout into a
// PaymentRequestedEvent.  With replay set the request was already published
// and only the redirect is returned.
type sessionRedirector struct {
	reference string
	sessionID string
	publisher EventPublisher
	now       func() time.Time
	replay    bool
}

func (r sessionRedirector) RedirectToPayment(ctx context.Context, co booking.Checkout) (booking.Redirect, error) {
	rd := booking.Redirect{Reference: r.reference, Message: RedirectMessage}
	if r.replay {
		return rd, nil
	}
	if err := r.publisher.Publish(ctx, paymentEvent(r.reference, r.sessionID, co, r.now())); err != nil {
		return booking.Redirect{}, err
	}
	return rd, nil
}

func paymentEvent(ref, sessionID string, co booking.Checkout, at time.Time) queue.PaymentRequestedEvent {
	items := make([]queue.EventLine, 0, len(co.Record.Items))
	for _, l := range co.Record.Items {
		items = append(items, queue.EventLine{Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	return queue.PaymentRequestedEvent{
		Reference:    ref,
		SessionID:    sessionID,
		CustomerName: co.Record.Name,
		RestaurantID: string(co.Record.Restaurant),
		Restaurant:   co.RestaurantName,
		Items:        items,
		Seats:        append([]int(nil), co.Record.Seats...),
		CartTotal:    co.CartTotal,
		SeatsTotal:   co.SeatsTotal,
		GrandTotal:   co.GrandTotal,
		Currency:     Currency,
		RequestedAt:  at.UTC().Format(time.RFC3339),
	}
}
