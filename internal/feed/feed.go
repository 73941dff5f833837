// Package feed broadcasts registration changes over Redis pub/sub. Other
// clients (dashboards, the check-in sheet) subscribe to refresh their
// views. The feed is advisory only: correctness never depends on it, and a
// missing Redis degrades to a no-op.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// Change is the summary published for every registration mutation.
type Change struct {
	RegistrationID string `json:"registration_id"`
	Status         string `json:"status"`
	Balance        int    `json:"balance"`
	TicketIssued   bool   `json:"ticket_issued"`
	CheckedIn      bool   `json:"checked_in"`
}

type Feed struct {
	client  *redis.Client
	channel string
}

// New connects to Redis and returns the feed, or nil when addr is empty or
// the server is unreachable. Callers treat a nil feed as disabled.
func New(addr, password, channel string) *Feed {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return &Feed{client: client, channel: channel}
}

// RegistrationChanged publishes a change summary. Satisfies
// lifecycle.ChangeFeed and checkin.ChangeFeed.
func (f *Feed) RegistrationChanged(ctx context.Context, reg models.Registration) error {
	body, err := json.Marshal(Change{
		RegistrationID: reg.ID,
		Status:         reg.Status,
		Balance:        reg.Balance,
		TicketIssued:   reg.TicketGenerated,
		CheckedIn:      reg.CheckedIn,
	})
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.channel, body).Err()
}

func (f *Feed) Close() error {
	return f.client.Close()
}
