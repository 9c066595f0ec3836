// Package repository holds the stores behind the booking service: booking
// sessions (Redis or memory), the receipt ledger (MySQL or memory) and the
// cafeteria stalls.  The sentinel errors below let handlers map a missing
// record to a 404 without knowing which backend produced it.
package repository

import "errors"

// ErrSessionNotFound is returned for unknown or expired booking sessions.
var ErrSessionNotFound = errors.New("session not found")

// ErrReceiptNotFound is returned when no receipt carries the reference.
var ErrReceiptNotFound = errors.New("receipt not found")

// ErrStallNotFound is returned for unknown stall ids.
var ErrStallNotFound = errors.New("stall not found")
