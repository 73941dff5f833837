package checkin

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

func setupGate(t *testing.T) (*Gate, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.Registration{}, &models.GroupMember{})

	logger := zerolog.Nop()
	return NewGate(db, nil, &logger), db
}

func seed(t *testing.T, db *gorm.DB, reg models.Registration) models.Registration {
	t.Helper()
	if err := db.Create(&reg).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}
	return reg
}

func TestCheckIn_ExactID(t *testing.T) {
	gate, db := setupGate(t)
	ctx := context.Background()

	reg := seed(t, db, models.Registration{
		ID: "1001", Name: "Ada Obi", Phone: "08011110001", Email: "ada@example.com",
		TicketType: models.TicketSolo, TotalDue: 2000, TotalPaid: 2000, Balance: 0,
		Status: models.StatusPaid, TicketGenerated: true,
	})

	result, err := gate.CheckIn(ctx, reg.ID)
	if err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if result.AlreadyCheckedIn {
		t.Error("expected first check-in, got already-checked-in")
	}
	if result.BalanceWarning != 0 {
		t.Errorf("expected no balance warning, got %d", result.BalanceWarning)
	}
	if !result.Registration.CheckedIn || result.Registration.CheckedInAt == nil {
		t.Error("expected CheckedIn set with timestamp")
	}

	var stored models.Registration
	db.First(&stored, "id = ?", reg.ID)
	if !stored.CheckedIn {
		t.Error("expected CheckedIn persisted")
	}
}

func TestCheckIn_Idempotent(t *testing.T) {
	gate, db := setupGate(t)
	ctx := context.Background()

	reg := seed(t, db, models.Registration{
		ID: "1002", Name: "Bola Ade", Phone: "08011110002", Email: "bola@example.com",
		TicketType: models.TicketSolo, TotalDue: 2000, TotalPaid: 2000,
		Status: models.StatusPaid,
	})

	if _, err := gate.CheckIn(ctx, reg.ID); err != nil {
		t.Fatalf("first CheckIn returned error: %v", err)
	}

	result, err := gate.CheckIn(ctx, reg.ID)
	if err != nil {
		t.Fatalf("second CheckIn returned error: %v", err)
	}
	if !result.AlreadyCheckedIn {
		t.Error("expected already-checked-in on repeat scan")
	}
	if !result.Registration.CheckedIn {
		t.Error("expected CheckedIn to remain true")
	}
}

func TestCheckIn_BalanceWarning(t *testing.T) {
	gate, db := setupGate(t)
	ctx := context.Background()

	// Outstanding balance warns but never blocks admission.
	reg := seed(t, db, models.Registration{
		ID: "1003", Name: "Chi Eze", Phone: "08011110003", Email: "chi@example.com",
		TicketType: models.TicketGuest, TotalDue: 3000, TotalPaid: 1000, Balance: 2000,
		Status: models.StatusPending,
	})

	result, err := gate.CheckIn(ctx, reg.ID)
	if err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if result.BalanceWarning != 2000 {
		t.Errorf("expected balance warning 2000, got %d", result.BalanceWarning)
	}
	if !result.Registration.CheckedIn {
		t.Error("expected admission despite outstanding balance")
	}
}

func TestCheckIn_ManualSearch(t *testing.T) {
	gate, db := setupGate(t)
	ctx := context.Background()

	seed(t, db, models.Registration{
		ID: "1004", Name: "Dayo Falana", Phone: "08011110004", Email: "dayo@example.com",
		TicketType: models.TicketSolo, TotalDue: 2000,
	})
	seed(t, db, models.Registration{
		ID: "1005", Name: "Dayo Bankole", Phone: "08011110005", Email: "db@example.com",
		TicketType: models.TicketSolo, TotalDue: 2000,
	})

	result, err := gate.CheckIn(ctx, "Dayo")
	if err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}

	// Nobody was admitted by the ambiguous query.
	var checkedIn int64
	db.Model(&models.Registration{}).Where("checked_in = ?", true).Count(&checkedIn)
	if checkedIn != 0 {
		t.Errorf("expected no check-ins from a search, got %d", checkedIn)
	}

	// Phone and email work as queries too.
	byPhone, err := gate.Search(ctx, "08011110005")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].ID != "1005" {
		t.Errorf("expected phone search to find 1005, got %v", byPhone)
	}
}

func TestCheckIn_NotFound(t *testing.T) {
	gate, _ := setupGate(t)

	_, err := gate.CheckIn(context.Background(), "nobody-here")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
