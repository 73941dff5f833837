// Package mailer delivers e-tickets over SMTP. Delivery is best effort:
// the ticket and registration state are already durable when a send is
// attempted, so failures are logged and surfaced but never retried here.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"github.com/akoka-events/crossover-tickets-api/internal/config"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

type Mailer struct {
	cfg *config.Config
	log *zerolog.Logger
}

func New(cfg *config.Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendTicketEmail sends the e-ticket with the QR link to the attendee.
func (m *Mailer) SendTicketEmail(reg models.Registration) error {
	if m.cfg.SMTPHost == "" || m.cfg.EmailFrom == "" {
		m.log.Debug().Str("registration_id", reg.ID).Msg("mailer not configured, skipping ticket email")
		return nil
	}

	subject := fmt.Sprintf("🎟️ Your %s ticket", m.cfg.EventName)

	guestLine := ""
	if reg.GuestName != "" {
		guestLine = fmt.Sprintf("Guest: %s\n", reg.GuestName)
	}
	body := fmt.Sprintf(
		"Hello %s,\n\nYour registration is complete. Present the QR code below at the door.\n\n"+
			"Ticket ID: %s\nTicket type: %s\n%sChurch: %s\nZone: %s\n\nQR code: %s\n\n%s — %s, %s\n",
		reg.Name,
		reg.ID,
		reg.TicketType,
		guestLine,
		reg.Church,
		reg.Zone,
		reg.TicketQR,
		m.cfg.EventName,
		m.cfg.EventDate,
		m.cfg.EventTime,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.EmailFrom, reg.Email, subject, body,
	)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, m.cfg.EmailFrom, []string{reg.Email}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("email", reg.Email).Msg("failed to send ticket email")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("email", reg.Email).Str("registration_id", reg.ID).Msg("ticket email sent")
	return nil
}
