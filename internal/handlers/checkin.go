package handlers

import (
	"context"

	"github.com/akoka-events/crossover-tickets-api/internal/auth"
	"github.com/akoka-events/crossover-tickets-api/internal/checkin"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

type CheckInHandler struct {
	gate        *checkin.Gate
	authHandler *auth.AuthHandler
}

func NewCheckInHandler(gate *checkin.Gate, authHandler *auth.AuthHandler) *CheckInHandler {
	return &CheckInHandler{gate: gate, authHandler: authHandler}
}

type CheckInRequest struct {
	auth.AuthInput
	Body struct {
		Identifier string `json:"identifier" doc:"Scanned credential id or free-text query" required:"true"`
	}
}

type CheckInResponse struct {
	Body struct {
		Registration     *models.Registration  `json:"registration,omitempty"`
		AlreadyCheckedIn bool                  `json:"already_checked_in"`
		BalanceWarning   int                   `json:"balance_warning,omitempty"`
		Candidates       []models.Registration `json:"candidates,omitempty"`
	}
}

func (h *CheckInHandler) HandleCheckIn(ctx context.Context, input *CheckInRequest) (*CheckInResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	result, err := h.gate.CheckIn(ctx, input.Body.Identifier)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &CheckInResponse{}
	if len(result.Candidates) > 0 {
		res.Body.Candidates = result.Candidates
		return res, nil
	}
	res.Body.Registration = &result.Registration
	res.Body.AlreadyCheckedIn = result.AlreadyCheckedIn
	res.Body.BalanceWarning = result.BalanceWarning
	return res, nil
}

type SearchRequest struct {
	auth.AuthInput
	Query string `query:"q" doc:"Free-text query matched against id, name, phone and email" required:"true"`
}

type SearchResponse struct {
	Body struct {
		Registrations []models.Registration `json:"registrations"`
	}
}

func (h *CheckInHandler) HandleSearch(ctx context.Context, input *SearchRequest) (*SearchResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	matches, err := h.gate.Search(ctx, input.Query)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &SearchResponse{}
	res.Body.Registrations = matches
	return res, nil
}
