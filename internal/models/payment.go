package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment methods accepted at registration and at the desk.
const (
	MethodCash     = "cash"
	MethodTransfer = "transfer"
)

// Payment statuses. Cash payments self-approve at creation; transfers wait
// for an explicit staff approval.
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
)

// Payment is one attempt to pay toward a registration's balance. Rows are
// append-only: approval mutates Status and the approval metadata, nothing
// else ever changes after creation.
type Payment struct {
	gorm.Model
	RegistrationID string `json:"registration_id" gorm:"index"`
	Amount         int    `json:"amount"`
	Method         string `json:"method"`

	// Evidence: exactly one shape per method. Cash is vouched for by the
	// staff member who received it; transfers carry the bank reference and
	// an uploaded receipt.
	ReceiverName   string `json:"receiver_name,omitempty"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	ReceiptImage   string `json:"receipt_image,omitempty"`
	Notes          string `json:"notes,omitempty"`

	Status     string     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}
