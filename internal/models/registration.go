package models

import (
	"time"
)

// Ticket types sold at the gate and online.
const (
	TicketSolo  = "solo"
	TicketGuest = "guest"
	TicketGroup = "group"
)

// Registration statuses. Status is derived from Balance and must never be
// written independently of it.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

type Registration struct {
	// ID is a time-based opaque token generated at creation. It doubles as
	// the identifier embedded in the ticket credential.
	ID         string `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Phone      string `json:"phone" gorm:"index"`
	Email      string `json:"email" gorm:"index"`
	Church     string `json:"church"`
	Zone       string `json:"zone"`
	MealChoice string `json:"meal_choice"`

	TicketType string `json:"ticket_type"`
	GuestName  string `json:"guest_name,omitempty"`
	GroupSize  int    `json:"group_size,omitempty"`

	GroupMembers []GroupMember `json:"group_members,omitempty" gorm:"foreignKey:RegistrationID"`

	TotalDue  int    `json:"total_due"`
	TotalPaid int    `json:"total_paid"`
	Balance   int    `json:"balance"`
	Status    string `json:"status"`

	TicketQR        string `json:"ticket_qr,omitempty"`
	TicketGenerated bool   `json:"ticket_generated"`

	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupMember is an additional attendee on a group registration.
type GroupMember struct {
	ID             uint   `json:"-" gorm:"primaryKey"`
	RegistrationID string `json:"-" gorm:"index"`
	Name           string `json:"name"`
	MealChoice     string `json:"meal_choice"`
}
