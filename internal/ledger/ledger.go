// Package ledger holds the pure money arithmetic for registrations: what a
// ticket costs and how a payment moves the paid/balance pair. Nothing in
// here touches the database; callers feed it current values and persist the
// results themselves.
package ledger

import (
	"errors"
	"fmt"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// ErrInvalidAmount is returned for a non-positive payment or one that would
// push the balance below zero. Overshoot is an error rather than a clamp so
// double-submitted payments surface instead of disappearing.
var ErrInvalidAmount = errors.New("invalid payment amount")

// ErrUnknownTicketType is returned when the ticket type is not one of
// solo, guest or group.
var ErrUnknownTicketType = errors.New("unknown ticket type")

// Pricebook carries the unit ticket price. All amounts are whole naira.
type Pricebook struct {
	Unit int
}

// ComputeDue returns the total owed for a ticket type. A guest ticket
// admits two people at a bundled rate of 1.5x the unit price. Group
// tickets are priced per head.
func (p Pricebook) ComputeDue(ticketType string, groupSize int) (int, error) {
	switch ticketType {
	case models.TicketSolo:
		return p.Unit, nil
	case models.TicketGuest:
		return p.Unit + p.Unit/2, nil
	case models.TicketGroup:
		if groupSize < 1 {
			return 0, fmt.Errorf("%w: group size must be at least 1", ErrInvalidAmount)
		}
		return p.Unit * groupSize, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTicketType, ticketType)
	}
}

// ApplyPayment folds amount into the paid total and returns the new
// (totalPaid, balance) pair. The amount must be positive and must not
// exceed the outstanding balance.
func ApplyPayment(totalDue, totalPaid, amount int) (int, int, error) {
	balance := totalDue - totalPaid
	if amount <= 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if amount > balance {
		return 0, 0, fmt.Errorf("%w: %d exceeds balance of %d", ErrInvalidAmount, amount, balance)
	}
	newPaid := totalPaid + amount
	return newPaid, totalDue - newPaid, nil
}
