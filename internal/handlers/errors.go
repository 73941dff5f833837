package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/akoka-events/crossover-tickets-api/internal/checkin"
	"github.com/akoka-events/crossover-tickets-api/internal/ledger"
	"github.com/akoka-events/crossover-tickets-api/internal/lifecycle"
	"github.com/akoka-events/crossover-tickets-api/internal/payments"
)

// mapDomainError translates core sentinel errors into HTTP status errors.
// Anything unrecognized is a 500.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrRegistrationNotFound),
		errors.Is(err, payments.ErrPaymentNotFound),
		errors.Is(err, checkin.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownTicketType),
		errors.Is(err, lifecycle.ErrMissingEvidence):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, payments.ErrAlreadyApproved),
		errors.Is(err, lifecycle.ErrNoPendingPayment),
		errors.Is(err, lifecycle.ErrPaymentComplete):
		return huma.Error409Conflict(err.Error())
	}
	return huma.Error500InternalServerError("Failed to process request: " + err.Error())
}
