// Package queue carries ticket-issued events over RabbitMQ so e-ticket
// email delivery happens off the request path.
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// TicketIssuedEvent is the message published when a registration settles
// and its ticket is minted.
type TicketIssuedEvent struct {
	RegistrationID string    `json:"registration_id"`
	IssuedAt       time.Time `json:"issued_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewClient(url, queue string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		log.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.Error().Err(err).Msg("failed to declare queue")
		return nil, err
	}

	log.Info().Str("queue", queue).Msg("RabbitMQ initialized")

	return &Client{conn: conn, channel: ch, queue: queue}, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	log.Info().Msg("RabbitMQ connection closed")
}

// TicketIssued publishes a TicketIssuedEvent. Satisfies
// lifecycle.TicketNotifier.
func (c *Client) TicketIssued(ctx context.Context, reg models.Registration) error {
	body, err := json.Marshal(TicketIssuedEvent{
		RegistrationID: reg.ID,
		IssuedAt:       time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(ctx,
		"",      // default exchange
		c.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to publish ticket-issued event")
	}
	return err
}

// Consume feeds queued messages to handler. A handler error nacks the
// message back onto the queue.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to start consuming messages")
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				log.Warn().Err(err).Msg("failed to process message")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	log.Info().Str("queue", c.queue).Msg("started consuming")
	return nil
}
