// Package worker consumes ticket-issued events and sends the e-ticket
// email for each one. Email failure is logged and the message acked
// anyway: notification never blocks or retries against the money path.
package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/akoka-events/crossover-tickets-api/internal/lifecycle"
	"github.com/akoka-events/crossover-tickets-api/internal/mailer"
	"github.com/akoka-events/crossover-tickets-api/internal/queue"
)

type Reader struct {
	rmq    *queue.Client
	regs   *lifecycle.Service
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *queue.Client, regs *lifecycle.Service, mail *mailer.Mailer) *Reader {
	return &Reader{
		rmq:  rmq,
		regs: regs,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	log.Info().Msg("ticket email worker started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var event queue.TicketIssuedEvent
			if err := json.Unmarshal(body, &event); err != nil {
				log.Error().Err(err).Msgf("failed to unmarshal message: %s", string(body))
				return err
			}

			reg, err := r.regs.Get(cctx, event.RegistrationID)
			if err != nil {
				log.Error().Err(err).Str("registration_id", event.RegistrationID).Msg("failed to load registration for ticket email")
				// Nothing to retry against; drop the message.
				return nil
			}

			if err := r.mail.SendTicketEmail(*reg); err != nil {
				log.Warn().Err(err).Str("registration_id", reg.ID).Msg("ticket email failed, not retrying")
			}
			return nil
		}

		if err := r.rmq.Consume(handler); err != nil {
			log.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		log.Info().Msg("ticket email worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
