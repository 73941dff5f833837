// Package ticket mints the QR credential for a fully paid registration.
package ticket

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// Credential is the payload embedded in the ticket QR code. The scan path
// of the check-in gate decodes exactly this shape, so field names and order
// must stay stable.
type Credential struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TicketType string `json:"ticketType"`
	GuestName  string `json:"guestName,omitempty"`
}

// DefaultQRBaseURL renders the credential payload as a 300x300 QR image.
const DefaultQRBaseURL = "https://api.qrserver.com/v1/create-qr-code/"

type Issuer struct {
	baseURL string
}

func NewIssuer(baseURL string) Issuer {
	if baseURL == "" {
		baseURL = DefaultQRBaseURL
	}
	return Issuer{baseURL: baseURL}
}

// MaybeIssue mints the ticket credential onto the registration. It is a
// no-op when a ticket already exists or when a balance remains, so calling
// it on every recompute is safe: issuance happens at most once. Returns
// true when a ticket was issued by this call.
//
// The caller owns persistence; MaybeIssue only mutates the struct.
func (i Issuer) MaybeIssue(reg *models.Registration) (bool, error) {
	if reg.TicketGenerated || reg.Balance > 0 {
		return false, nil
	}

	cred := Credential{
		ID:         reg.ID,
		Name:       reg.Name,
		TicketType: reg.TicketType,
		GuestName:  reg.GuestName,
	}
	payload, err := json.Marshal(cred)
	if err != nil {
		return false, fmt.Errorf("marshal credential: %w", err)
	}

	reg.TicketQR = fmt.Sprintf("%s?size=300x300&data=%s", i.baseURL, url.QueryEscape(string(payload)))
	reg.TicketGenerated = true
	return true, nil
}
