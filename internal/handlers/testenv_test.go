package handlers

import (
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akoka-events/crossover-tickets-api/internal/auth"
	"github.com/akoka-events/crossover-tickets-api/internal/checkin"
	"github.com/akoka-events/crossover-tickets-api/internal/config"
	"github.com/akoka-events/crossover-tickets-api/internal/ledger"
	"github.com/akoka-events/crossover-tickets-api/internal/lifecycle"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
	"github.com/akoka-events/crossover-tickets-api/internal/payments"
	"github.com/akoka-events/crossover-tickets-api/internal/ticket"
)

type testEnv struct {
	db            *gorm.DB
	registrations *RegistrationHandler
	payments      *PaymentHandler
	checkins      *CheckInHandler
	authCookie    string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.Registration{}, &models.GroupMember{}, &models.Payment{})

	cfg := &config.Config{JWTSecret: "test-secret", StaffPIN: "1234", TicketPrice: 2000}
	logger := zerolog.Nop()

	svc := lifecycle.NewService(db, payments.NewStore(db), ledger.Pricebook{Unit: cfg.TicketPrice}, ticket.NewIssuer(""), &logger)
	gate := checkin.NewGate(db, nil, &logger)
	authHandler := auth.NewAuthHandler(cfg)

	token, err := authHandler.GenerateToken("Pastor Dayo")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return &testEnv{
		db:            db,
		registrations: NewRegistrationHandler(svc, authHandler),
		payments:      NewPaymentHandler(svc, authHandler),
		checkins:      NewCheckInHandler(gate, authHandler),
		authCookie:    "auth_token=" + token,
	}
}
