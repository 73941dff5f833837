package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// Notifier pushes human-attention events to the staff ops channel. Every
// call is advisory: failures are logged by the caller and never affect
// registration state.
type Notifier interface {
	NotifyPendingPayment(reg models.Registration, payment models.Payment) error
	NotifyTicketIssued(reg models.Registration) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyPendingPayment(reg models.Registration, payment models.Payment) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("💸 **Transfer awaiting approval**\n**Attendee:** %s (%s)\n**Amount:** ₦%d\n**Ref:** %s\n**Outstanding balance:** ₦%d",
		reg.Name,
		reg.Phone,
		payment.Amount,
		payment.TransactionRef,
		reg.Balance,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Warn().Err(err).Msg("failed to send discord message")
		return err
	}

	return nil
}

func (n *DiscordNotifier) NotifyTicketIssued(reg models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	guestStr := ""
	if reg.GuestName != "" {
		guestStr = fmt.Sprintf("\n**Guest:** %s", reg.GuestName)
	}

	message := fmt.Sprintf("🎟️ **Ticket issued**\n**Attendee:** %s\n**Ticket:** %s%s\n**Church/Zone:** %s / %s",
		reg.Name,
		reg.TicketType,
		guestStr,
		reg.Church,
		reg.Zone,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Warn().Err(err).Msg("failed to send discord message")
		return err
	}

	return nil
}
