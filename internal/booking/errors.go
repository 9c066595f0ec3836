// Package booking implements the three-step cafeteria booking workflow:
// choosing dishes from a restaurant menu, picking seats from a fixed pool and
// handing the finished booking to a payment collaborator.  Nothing in this
// package performs I/O; the HTTP layer persists a Coordinator between
// requests through Snapshot and Restore.
package booking

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownRestaurant is returned when a restaurant id is not part of
	// the catalog.
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	// ErrUnknownItem is returned when a dish name is not on the menu of the
	// selected restaurant.
	ErrUnknownItem = errors.New("unknown menu item")
	// ErrSeatOutOfRange is returned for seat numbers outside the seat pool.
	ErrSeatOutOfRange = errors.New("seat out of range")
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the coordinator's current step.
	ErrInvalidTransition = errors.New("invalid step transition")
)

// ValidationError collects user-facing messages for a rejected form.  The
// step of the workflow never advances when one is returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) add(msg string) { e.Messages = append(e.Messages, msg) }

// orNil returns nil when no message was collected.
func (e *ValidationError) orNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
