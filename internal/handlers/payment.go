package handlers

import (
	"context"

	"github.com/akoka-events/crossover-tickets-api/internal/auth"
	"github.com/akoka-events/crossover-tickets-api/internal/lifecycle"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
	"github.com/akoka-events/crossover-tickets-api/internal/payments"
)

type PaymentHandler struct {
	svc         *lifecycle.Service
	authHandler *auth.AuthHandler
}

func NewPaymentHandler(svc *lifecycle.Service, authHandler *auth.AuthHandler) *PaymentHandler {
	return &PaymentHandler{svc: svc, authHandler: authHandler}
}

type AddPaymentRequest struct {
	auth.AuthInput
	ID   string `path:"id" doc:"Registration id"`
	Body struct {
		Amount         int    `json:"amount" doc:"Amount in whole naira" required:"true"`
		Method         string `json:"method" enum:"cash,transfer" doc:"Payment method" required:"true"`
		ReceiverName   string `json:"receiver_name,omitempty" doc:"Staff member who received cash"`
		TransactionRef string `json:"transaction_ref,omitempty" doc:"Bank transfer reference"`
		ReceiptImage   string `json:"receipt_image,omitempty" doc:"Uploaded receipt reference"`
		Notes          string `json:"notes,omitempty" doc:"Free-text note on the payment"`
	}
}

func (h *PaymentHandler) HandleAddPayment(ctx context.Context, input *AddPaymentRequest) (*RegistrationResponse, error) {
	staffName, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	ev := payments.Evidence{
		ReceiverName:   input.Body.ReceiverName,
		TransactionRef: input.Body.TransactionRef,
		ReceiptImage:   input.Body.ReceiptImage,
		Notes:          input.Body.Notes,
	}
	// Cash recorded from the admin screen defaults to the logged-in
	// staff member as receiver.
	if input.Body.Method == models.MethodCash && ev.ReceiverName == "" {
		ev.ReceiverName = staffName
	}

	reg, err := h.svc.AddPayment(ctx, input.ID, input.Body.Amount, input.Body.Method, ev)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &RegistrationResponse{Body: *reg}, nil
}

type ApprovePaymentRequest struct {
	auth.AuthInput
	PaymentID uint `path:"paymentId" doc:"Payment id"`
}

func (h *PaymentHandler) HandleApprovePayment(ctx context.Context, input *ApprovePaymentRequest) (*RegistrationResponse, error) {
	staffName, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reg, err := h.svc.ApprovePayment(ctx, input.PaymentID, staffName)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &RegistrationResponse{Body: *reg}, nil
}

type ApproveOldestRequest struct {
	auth.AuthInput
	ID string `path:"id" doc:"Registration id"`
}

func (h *PaymentHandler) HandleApproveOldest(ctx context.Context, input *ApproveOldestRequest) (*RegistrationResponse, error) {
	staffName, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reg, err := h.svc.ApproveOldestPending(ctx, input.ID, staffName)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return &RegistrationResponse{Body: *reg}, nil
}

type ListPaymentsRequest struct {
	auth.AuthInput
	ID string `path:"id" doc:"Registration id"`
}

type ListPaymentsResponse struct {
	Body struct {
		Payments []models.Payment `json:"payments"`
	}
}

func (h *PaymentHandler) HandleListPayments(ctx context.Context, input *ListPaymentsRequest) (*ListPaymentsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	rows, err := h.svc.Payments(ctx, input.ID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	res := &ListPaymentsResponse{}
	res.Body.Payments = rows
	return res, nil
}
