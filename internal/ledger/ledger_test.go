package ledger

import (
	"errors"
	"testing"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

func TestComputeDue(t *testing.T) {
	pb := Pricebook{Unit: 2000}

	t.Run("Solo", func(t *testing.T) {
		due, err := pb.ComputeDue(models.TicketSolo, 0)
		if err != nil {
			t.Fatalf("ComputeDue returned error: %v", err)
		}
		if due != 2000 {
			t.Errorf("expected 2000, got %d", due)
		}
	})

	t.Run("Guest", func(t *testing.T) {
		due, err := pb.ComputeDue(models.TicketGuest, 0)
		if err != nil {
			t.Fatalf("ComputeDue returned error: %v", err)
		}
		if due != 3000 {
			t.Errorf("expected 3000, got %d", due)
		}
	})

	t.Run("Group", func(t *testing.T) {
		due, err := pb.ComputeDue(models.TicketGroup, 5)
		if err != nil {
			t.Fatalf("ComputeDue returned error: %v", err)
		}
		if due != 10000 {
			t.Errorf("expected 10000, got %d", due)
		}
	})

	t.Run("GroupSizeZero", func(t *testing.T) {
		_, err := pb.ComputeDue(models.TicketGroup, 0)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := pb.ComputeDue("vip", 0)
		if !errors.Is(err, ErrUnknownTicketType) {
			t.Errorf("expected ErrUnknownTicketType, got %v", err)
		}
	})
}

func TestApplyPayment(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		paid, balance, err := ApplyPayment(3000, 0, 1000)
		if err != nil {
			t.Fatalf("ApplyPayment returned error: %v", err)
		}
		if paid != 1000 || balance != 2000 {
			t.Errorf("expected paid=1000 balance=2000, got paid=%d balance=%d", paid, balance)
		}
	})

	t.Run("ExactBalance", func(t *testing.T) {
		paid, balance, err := ApplyPayment(3000, 1000, 2000)
		if err != nil {
			t.Fatalf("ApplyPayment returned error: %v", err)
		}
		if paid != 3000 || balance != 0 {
			t.Errorf("expected paid=3000 balance=0, got paid=%d balance=%d", paid, balance)
		}
	})

	t.Run("Overshoot", func(t *testing.T) {
		_, _, err := ApplyPayment(3000, 1000, 2001)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("Zero", func(t *testing.T) {
		_, _, err := ApplyPayment(3000, 0, 0)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("Negative", func(t *testing.T) {
		_, _, err := ApplyPayment(3000, 0, -500)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})
}
