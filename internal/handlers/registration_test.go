package handlers

import (
	"context"
	"testing"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

func registerRequest(ticketType string) *RegisterRequest {
	req := &RegisterRequest{}
	req.Body.Name = "Ada Obi"
	req.Body.Phone = "08012345678"
	req.Body.Email = "ada@example.com"
	req.Body.Church = "TLBC Akoka"
	req.Body.Zone = "Akoka"
	req.Body.TicketType = ticketType
	return req
}

func TestHandleRegister_CashFullPayment(t *testing.T) {
	env := setupEnv(t)

	req := registerRequest(models.TicketSolo)
	req.Body.Payment = PaymentBody{
		Amount:       2000,
		Method:       models.MethodCash,
		ReceiverName: "Jane",
		StaffPIN:     "1234",
	}

	resp, err := env.registrations.HandleRegister(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}

	if resp.Body.Status != models.StatusPaid {
		t.Errorf("expected status paid, got %s", resp.Body.Status)
	}
	if resp.Body.Balance != 0 {
		t.Errorf("expected balance 0, got %d", resp.Body.Balance)
	}
	if !resp.Body.TicketGenerated {
		t.Error("expected ticket issued immediately")
	}

	var count int64
	env.db.Model(&models.Registration{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 registration in DB, got %d", count)
	}
}

func TestHandleRegister_CashNeedsStaffPIN(t *testing.T) {
	env := setupEnv(t)

	req := registerRequest(models.TicketSolo)
	req.Body.Payment = PaymentBody{
		Amount:       2000,
		Method:       models.MethodCash,
		ReceiverName: "Jane",
		StaffPIN:     "9999",
	}

	if _, err := env.registrations.HandleRegister(context.Background(), req); err == nil {
		t.Fatal("expected error for wrong staff PIN, got nil")
	}

	var count int64
	env.db.Model(&models.Registration{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no registration created, got %d", count)
	}
}

func TestHandleRegister_TransferPartial(t *testing.T) {
	env := setupEnv(t)

	req := registerRequest(models.TicketGuest)
	req.Body.GuestName = "Chidi Obi"
	req.Body.Payment = PaymentBody{
		Amount:         1000,
		Method:         models.MethodTransfer,
		TransactionRef: "TX123",
		ReceiptImage:   "receipts/tx123.jpg",
	}

	resp, err := env.registrations.HandleRegister(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}

	if resp.Body.Status != models.StatusPending {
		t.Errorf("expected status pending, got %s", resp.Body.Status)
	}
	if resp.Body.TotalDue != 3000 {
		t.Errorf("expected due 3000, got %d", resp.Body.TotalDue)
	}
	if resp.Body.Balance != 3000 {
		t.Errorf("expected balance 3000 before approval, got %d", resp.Body.Balance)
	}
	if resp.Body.TicketGenerated {
		t.Error("expected no ticket while pending")
	}
}

func TestHandleRegister_GuestNeedsGuestName(t *testing.T) {
	env := setupEnv(t)

	req := registerRequest(models.TicketGuest)
	req.Body.Payment = PaymentBody{
		Amount:         3000,
		Method:         models.MethodTransfer,
		TransactionRef: "TX1",
	}

	if _, err := env.registrations.HandleRegister(context.Background(), req); err == nil {
		t.Fatal("expected error for missing guest name, got nil")
	}
}

func TestHandleList(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	req := registerRequest(models.TicketSolo)
	req.Body.Payment = PaymentBody{Amount: 2000, Method: models.MethodCash, ReceiverName: "Jane", StaffPIN: "1234"}
	if _, err := env.registrations.HandleRegister(ctx, req); err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}

	req2 := registerRequest(models.TicketGuest)
	req2.Body.Name = "Bola Ade"
	req2.Body.Email = "bola@example.com"
	req2.Body.GuestName = "Seun"
	req2.Body.Payment = PaymentBody{Amount: 1000, Method: models.MethodTransfer, TransactionRef: "TX9"}
	if _, err := env.registrations.HandleRegister(ctx, req2); err != nil {
		t.Fatalf("second HandleRegister returned error: %v", err)
	}

	listReq := &ListRegistrationsRequest{}
	listReq.Cookie = env.authCookie
	resp, err := env.registrations.HandleList(ctx, listReq)
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}

	if resp.Body.Total != 2 {
		t.Errorf("expected 2 registrations, got %d", resp.Body.Total)
	}
	if resp.Body.Outstanding != 3000 {
		t.Errorf("expected outstanding 3000, got %d", resp.Body.Outstanding)
	}

	// Unauthenticated listing is rejected.
	if _, err := env.registrations.HandleList(ctx, &ListRegistrationsRequest{}); err == nil {
		t.Fatal("expected error for unauthenticated list, got nil")
	}
}
