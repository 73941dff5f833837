// Package checkin is the door-side gate: it resolves a scanned credential
// id or a free-text query to a registration and records attendance.
package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// ErrNotFound is returned when no registration matches the presented
// identifier. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("no matching registration")

// ChangeFeed mirrors lifecycle.ChangeFeed for door-side mutations.
type ChangeFeed interface {
	RegistrationChanged(ctx context.Context, reg models.Registration) error
}

// Result is the outcome of presenting an identifier at the gate.
type Result struct {
	Registration models.Registration

	// AlreadyCheckedIn is set when the attendee was admitted earlier.
	// A repeat scan is not an error.
	AlreadyCheckedIn bool

	// BalanceWarning carries the outstanding amount when the attendee
	// still owes money. Admission is not blocked; the door staff decide.
	BalanceWarning int

	// Candidates holds the possible matches when the identifier was a
	// free-text query rather than an exact credential id. No one was
	// checked in; the caller must pick one and present its id.
	Candidates []models.Registration
}

type Gate struct {
	db   *gorm.DB
	feed ChangeFeed
	log  *zerolog.Logger
}

func NewGate(db *gorm.DB, feed ChangeFeed, log *zerolog.Logger) *Gate {
	return &Gate{db: db, feed: feed, log: log}
}

// CheckIn resolves identifier and records attendance. An exact credential
// id checks the attendee in (idempotently); anything else is treated as a
// manual search and returns candidates for disambiguation.
func (g *Gate) CheckIn(ctx context.Context, identifier string) (*Result, error) {
	var reg models.Registration
	err := g.db.WithContext(ctx).Preload("GroupMembers").First(&reg, "id = ?", identifier).Error
	if err == nil {
		return g.admit(ctx, reg)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidates, err := g.Search(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}
	return &Result{Candidates: candidates}, nil
}

// Search matches a free-text query against id, name, phone and email.
func (g *Gate) Search(ctx context.Context, query string) ([]models.Registration, error) {
	var matches []models.Registration
	pattern := "%" + query + "%"
	err := g.db.WithContext(ctx).
		Preload("GroupMembers").
		Where("id = ? OR name LIKE ? OR phone LIKE ? OR email LIKE ?", query, pattern, pattern, pattern).
		Order("name asc").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (g *Gate) admit(ctx context.Context, reg models.Registration) (*Result, error) {
	result := &Result{Registration: reg}
	if reg.Balance > 0 {
		result.BalanceWarning = reg.Balance
	}
	if reg.CheckedIn {
		result.AlreadyCheckedIn = true
		return result, nil
	}

	now := time.Now()
	err := g.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", reg.ID).
		Updates(map[string]interface{}{
			"checked_in":    true,
			"checked_in_at": now,
		}).Error
	if err != nil {
		return nil, err
	}
	reg.CheckedIn = true
	reg.CheckedInAt = &now
	result.Registration = reg

	if g.feed != nil {
		if err := g.feed.RegistrationChanged(ctx, reg); err != nil {
			g.log.Warn().Err(err).Str("registration_id", reg.ID).Msg("failed to publish check-in to change feed")
		}
	}
	return result, nil
}
