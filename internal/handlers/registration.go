package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/akoka-events/crossover-tickets-api/internal/auth"
	"github.com/akoka-events/crossover-tickets-api/internal/lifecycle"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
	"github.com/akoka-events/crossover-tickets-api/internal/payments"
)

type RegistrationHandler struct {
	svc         *lifecycle.Service
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(svc *lifecycle.Service, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, authHandler: authHandler}
}

type GroupMemberBody struct {
	Name       string `json:"name" doc:"Additional attendee's name" required:"true"`
	MealChoice string `json:"meal_choice" doc:"Additional attendee's meal choice"`
}

type PaymentBody struct {
	Amount         int    `json:"amount" doc:"Amount in whole naira" required:"true"`
	Method         string `json:"method" enum:"cash,transfer" doc:"Payment method" required:"true"`
	ReceiverName   string `json:"receiver_name,omitempty" doc:"Staff member who received cash"`
	StaffPIN       string `json:"staff_pin,omitempty" doc:"Staff PIN vouching for a cash payment on the public form"`
	TransactionRef string `json:"transaction_ref,omitempty" doc:"Bank transfer reference"`
	ReceiptImage   string `json:"receipt_image,omitempty" doc:"Uploaded receipt reference"`
	Notes          string `json:"notes,omitempty" doc:"Free-text note on the payment"`
}

type RegisterRequest struct {
	Body struct {
		Name       string `json:"name" doc:"Attendee's full name" required:"true"`
		Phone      string `json:"phone" doc:"Attendee's phone number" required:"true"`
		Email      string `json:"email" doc:"Attendee's email" required:"true"`
		Church     string `json:"church" doc:"Home church" required:"true"`
		Zone       string `json:"zone" doc:"Church zone"`
		MealChoice string `json:"meal_choice" doc:"Meal choice"`

		TicketType   string            `json:"ticket_type" enum:"solo,guest,group" doc:"Ticket type" required:"true"`
		GuestName    string            `json:"guest_name,omitempty" doc:"Guest's name, required for guest tickets"`
		GroupSize    int               `json:"group_size,omitempty" doc:"Total attendee count for group tickets"`
		GroupMembers []GroupMemberBody `json:"group_members,omitempty" doc:"Additional attendees on a group ticket"`

		Payment PaymentBody `json:"payment" doc:"Initial payment" required:"true"`
	}
}

type RegistrationResponse struct {
	Body models.Registration
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegistrationResponse, error) {
	if input.Body.TicketType == models.TicketGuest && input.Body.GuestName == "" {
		return nil, huma.Error422UnprocessableEntity("Guest ticket needs a guest name")
	}

	// The public form records cash only when a staff member vouches for
	// it with the PIN. Transfers carry their own evidence.
	if input.Body.Payment.Method == models.MethodCash && !h.authHandler.CheckPIN(input.Body.Payment.StaffPIN) {
		return nil, huma.Error401Unauthorized("Invalid staff PIN")
	}

	newReg := lifecycle.NewRegistration{
		Name:       input.Body.Name,
		Phone:      input.Body.Phone,
		Email:      input.Body.Email,
		Church:     input.Body.Church,
		Zone:       input.Body.Zone,
		MealChoice: input.Body.MealChoice,
		TicketType: input.Body.TicketType,
		GuestName:  input.Body.GuestName,
		GroupSize:  input.Body.GroupSize,
		Payment: lifecycle.InitialPayment{
			Amount: input.Body.Payment.Amount,
			Method: input.Body.Payment.Method,
			Evidence: payments.Evidence{
				ReceiverName:   input.Body.Payment.ReceiverName,
				TransactionRef: input.Body.Payment.TransactionRef,
				ReceiptImage:   input.Body.Payment.ReceiptImage,
				Notes:          input.Body.Payment.Notes,
			},
		},
	}
	for _, m := range input.Body.GroupMembers {
		newReg.GroupMembers = append(newReg.GroupMembers, lifecycle.GroupMemberInput{
			Name:       m.Name,
			MealChoice: m.MealChoice,
		})
	}

	reg, err := h.svc.RegisterNew(ctx, newReg)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &RegistrationResponse{Body: *reg}, nil
}

type ListRegistrationsRequest struct {
	auth.AuthInput
}

type ListRegistrationsResponse struct {
	Body struct {
		Registrations []models.Registration `json:"registrations"`
		Total         int                   `json:"total"`
		CheckedIn     int                   `json:"checked_in"`
		Outstanding   int                   `json:"outstanding"`
	}
}

func (h *RegistrationHandler) HandleList(ctx context.Context, input *ListRegistrationsRequest) (*ListRegistrationsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	regs, err := h.svc.List(ctx)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &ListRegistrationsResponse{}
	res.Body.Registrations = regs
	res.Body.Total = len(regs)
	for _, reg := range regs {
		if reg.CheckedIn {
			res.Body.CheckedIn++
		}
		if reg.Balance > 0 {
			res.Body.Outstanding += reg.Balance
		}
	}
	return res, nil
}

type GetRegistrationRequest struct {
	auth.AuthInput
	ID string `path:"id" doc:"Registration id"`
}

func (h *RegistrationHandler) HandleGet(ctx context.Context, input *GetRegistrationRequest) (*RegistrationResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	reg, err := h.svc.Get(ctx, input.ID)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &RegistrationResponse{Body: *reg}, nil
}
