// Package lifecycle owns a registration's journey from submission through
// payment to ticket issuance. All status/balance writes happen here: the
// HTTP layer and collaborators only submit payment events and read back the
// result. Every mutation recomputes the money fields from the authoritative
// sum of approved payments inside one transaction, so a cached total can
// never drift from the payment log.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akoka-events/crossover-tickets-api/internal/ledger"
	"github.com/akoka-events/crossover-tickets-api/internal/models"
	"github.com/akoka-events/crossover-tickets-api/internal/payments"
	"github.com/akoka-events/crossover-tickets-api/internal/ticket"
)

// ErrRegistrationNotFound is returned when the referenced registration does
// not exist.
var ErrRegistrationNotFound = errors.New("registration not found")

// ErrMissingEvidence is returned when a payment lacks the proof its method
// requires: a receiver name for cash, a transaction reference for transfer.
var ErrMissingEvidence = errors.New("missing payment evidence")

// ErrNoPendingPayment is returned by the quick-approve path when the
// registration has nothing awaiting approval.
var ErrNoPendingPayment = errors.New("no pending payment")

// ErrPaymentComplete is returned when an approval targets a registration
// whose balance is already settled. Counting the payment anyway would
// drive the balance negative.
var ErrPaymentComplete = errors.New("payment already complete")

// TicketNotifier delivers the issued ticket out of band (queue + email).
// Failures are logged and swallowed: notification never rolls back money
// state.
type TicketNotifier interface {
	TicketIssued(ctx context.Context, reg models.Registration) error
}

// StaffNotifier pings the ops channel about work needing human attention
// and notable milestones.
type StaffNotifier interface {
	NotifyPendingPayment(reg models.Registration, payment models.Payment) error
	NotifyTicketIssued(reg models.Registration) error
}

// ChangeFeed broadcasts registration changes so other clients can refresh.
// Purely advisory.
type ChangeFeed interface {
	RegistrationChanged(ctx context.Context, reg models.Registration) error
}

type Service struct {
	db        *gorm.DB
	store     *payments.Store
	pricebook ledger.Pricebook
	issuer    ticket.Issuer
	log       *zerolog.Logger

	tickets TicketNotifier
	staff   StaffNotifier
	feed    ChangeFeed
}

func NewService(db *gorm.DB, store *payments.Store, pricebook ledger.Pricebook, issuer ticket.Issuer, log *zerolog.Logger) *Service {
	return &Service{
		db:        db,
		store:     store,
		pricebook: pricebook,
		issuer:    issuer,
		log:       log,
	}
}

// WithNotifiers attaches the optional collaborators. Any of them may be nil.
func (s *Service) WithNotifiers(tickets TicketNotifier, staff StaffNotifier, feed ChangeFeed) *Service {
	s.tickets = tickets
	s.staff = staff
	s.feed = feed
	return s
}

// GroupMemberInput is one additional attendee on a group registration.
type GroupMemberInput struct {
	Name       string
	MealChoice string
}

// InitialPayment is the payment recorded as part of registration itself.
type InitialPayment struct {
	Amount   int
	Method   string
	Evidence payments.Evidence
}

// NewRegistration is everything the submission form collects.
type NewRegistration struct {
	Name       string
	Phone      string
	Email      string
	Church     string
	Zone       string
	MealChoice string

	TicketType   string
	GuestName    string
	GroupSize    int
	GroupMembers []GroupMemberInput

	Payment InitialPayment
}

// RegisterNew creates the registration, records its initial payment and,
// when that payment settles the full amount, issues the ticket in the same
// call.
func (s *Service) RegisterNew(ctx context.Context, input NewRegistration) (*models.Registration, error) {
	due, err := s.pricebook.ComputeDue(input.TicketType, input.GroupSize)
	if err != nil {
		return nil, err
	}
	if err := validateEvidence(input.Payment.Method, input.Payment.Evidence); err != nil {
		return nil, err
	}
	if input.Payment.Amount <= 0 || input.Payment.Amount > due {
		return nil, fmt.Errorf("%w: %d against due of %d", ledger.ErrInvalidAmount, input.Payment.Amount, due)
	}

	var reg models.Registration
	var issued bool
	var pending *models.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg = models.Registration{
			ID:         newRegistrationID(tx),
			Name:       input.Name,
			Phone:      input.Phone,
			Email:      input.Email,
			Church:     input.Church,
			Zone:       input.Zone,
			MealChoice: input.MealChoice,
			TicketType: input.TicketType,
			GuestName:  input.GuestName,
			GroupSize:  input.GroupSize,
			TotalDue:   due,
			Balance:    due,
			Status:     models.StatusPending,
		}
		for _, m := range input.GroupMembers {
			reg.GroupMembers = append(reg.GroupMembers, models.GroupMember{
				Name:       m.Name,
				MealChoice: m.MealChoice,
			})
		}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}

		payment, err := s.store.WithTx(tx).Append(ctx, reg.ID, input.Payment.Amount, input.Payment.Method, input.Payment.Evidence)
		if err != nil {
			return err
		}
		if payment.Status == models.PaymentPending {
			pending = payment
		}

		issued, err = s.recompute(ctx, tx, &reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, reg, issued, pending)
	return &reg, nil
}

// AddPayment records a further payment toward an existing registration and
// transitions its status. Amount must be positive and within the current
// balance; evidence must match the method.
func (s *Service) AddPayment(ctx context.Context, registrationID string, amount int, method string, ev payments.Evidence) (*models.Registration, error) {
	if err := validateEvidence(method, ev); err != nil {
		return nil, err
	}

	var reg models.Registration
	var issued bool
	var pending *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadRegistration(tx, registrationID, &reg); err != nil {
			return err
		}

		// Validate against the authoritative balance, not the cached field.
		paid, err := s.store.WithTx(tx).SumApproved(ctx, reg.ID)
		if err != nil {
			return err
		}
		if _, _, err := ledger.ApplyPayment(reg.TotalDue, paid, amount); err != nil {
			return err
		}

		payment, err := s.store.WithTx(tx).Append(ctx, reg.ID, amount, method, ev)
		if err != nil {
			return err
		}
		if payment.Status == models.PaymentPending {
			pending = payment
		}

		issued, err = s.recompute(ctx, tx, &reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, reg, issued, pending)
	return &reg, nil
}

// ApprovePayment approves one specific transfer payment and transitions the
// owning registration. A repeat call surfaces ErrAlreadyApproved; approving
// into a settled registration surfaces ErrPaymentComplete so a late
// approval can never push the balance negative.
func (s *Service) ApprovePayment(ctx context.Context, paymentID uint, approver string) (*models.Registration, error) {
	var reg models.Registration
	var issued bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.store.WithTx(tx).Get(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status == models.PaymentApproved {
			return payments.ErrAlreadyApproved
		}
		if err := loadRegistration(tx, payment.RegistrationID, &reg); err != nil {
			return err
		}
		if err := s.guardApproval(ctx, tx, &reg, payment.Amount); err != nil {
			return err
		}

		if _, err := s.store.WithTx(tx).MarkApproved(ctx, paymentID, approver); err != nil {
			return err
		}
		issued, err = s.recompute(ctx, tx, &reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, reg, issued, nil)
	return &reg, nil
}

// ApproveOldestPending is the quick-approve path: it picks the
// registration's oldest payment still awaiting approval and approves that
// one. FIFO, oldest first.
func (s *Service) ApproveOldestPending(ctx context.Context, registrationID string, approver string) (*models.Registration, error) {
	var reg models.Registration
	var issued bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadRegistration(tx, registrationID, &reg); err != nil {
			return err
		}

		oldest, err := s.store.WithTx(tx).OldestPending(ctx, registrationID)
		if errors.Is(err, payments.ErrPaymentNotFound) {
			return ErrNoPendingPayment
		}
		if err != nil {
			return err
		}
		if err := s.guardApproval(ctx, tx, &reg, oldest.Amount); err != nil {
			return err
		}

		if _, err := s.store.WithTx(tx).MarkApproved(ctx, oldest.ID, approver); err != nil {
			return err
		}
		issued, err = s.recompute(ctx, tx, &reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, reg, issued, nil)
	return &reg, nil
}

// Get returns a registration with its group members.
func (s *Service) Get(ctx context.Context, registrationID string) (*models.Registration, error) {
	var reg models.Registration
	if err := loadRegistration(s.db.WithContext(ctx), registrationID, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// List returns all registrations, newest first.
func (s *Service) List(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.WithContext(ctx).
		Preload("GroupMembers").
		Order("created_at desc").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// Payments returns a registration's payment history, newest first.
func (s *Service) Payments(ctx context.Context, registrationID string) ([]models.Payment, error) {
	var reg models.Registration
	if err := loadRegistration(s.db.WithContext(ctx), registrationID, &reg); err != nil {
		return nil, err
	}
	rows, err := s.store.ListByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	// Creation order from the store, newest first for the dashboard.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// guardApproval rejects an approval that cannot be counted: the
// registration is already settled, or this amount would overshoot what
// remains. Pending transfers are not capped against each other at creation,
// so the check has to happen here, against the authoritative approved sum.
func (s *Service) guardApproval(ctx context.Context, tx *gorm.DB, reg *models.Registration, amount int) error {
	paid, err := s.store.WithTx(tx).SumApproved(ctx, reg.ID)
	if err != nil {
		return err
	}
	if reg.TotalDue-paid <= 0 {
		return ErrPaymentComplete
	}
	if _, _, err := ledger.ApplyPayment(reg.TotalDue, paid, amount); err != nil {
		return err
	}
	return nil
}

// recompute derives the money fields and status from the approved payment
// sum and issues the ticket when the balance reaches zero. Runs inside the
// caller's transaction and saves the registration.
func (s *Service) recompute(ctx context.Context, tx *gorm.DB, reg *models.Registration) (bool, error) {
	paid, err := s.store.WithTx(tx).SumApproved(ctx, reg.ID)
	if err != nil {
		return false, err
	}
	reg.TotalPaid = paid
	reg.Balance = reg.TotalDue - paid
	if reg.Balance <= 0 {
		reg.Status = models.StatusPaid
	} else {
		reg.Status = models.StatusPending
	}

	issued, err := s.issuer.MaybeIssue(reg)
	if err != nil {
		return false, err
	}
	// Group members were written at creation; only the registration row
	// changes here.
	if err := tx.Omit(clause.Associations).Save(reg).Error; err != nil {
		return false, err
	}
	return issued, nil
}

// afterCommit fires the fire-and-forget collaborators. Nothing here may
// fail the operation: the money state is already durable.
func (s *Service) afterCommit(ctx context.Context, reg models.Registration, issued bool, pending *models.Payment) {
	if issued && s.tickets != nil {
		if err := s.tickets.TicketIssued(ctx, reg); err != nil {
			s.log.Warn().Err(err).Str("registration_id", reg.ID).Msg("failed to dispatch ticket notification")
		}
	}
	if issued && s.staff != nil {
		if err := s.staff.NotifyTicketIssued(reg); err != nil {
			s.log.Warn().Err(err).Str("registration_id", reg.ID).Msg("failed to notify staff of ticket issuance")
		}
	}
	if pending != nil && s.staff != nil {
		if err := s.staff.NotifyPendingPayment(reg, *pending); err != nil {
			s.log.Warn().Err(err).Str("registration_id", reg.ID).Msg("failed to notify staff of pending payment")
		}
	}
	if s.feed != nil {
		if err := s.feed.RegistrationChanged(ctx, reg); err != nil {
			s.log.Warn().Err(err).Str("registration_id", reg.ID).Msg("failed to publish change feed update")
		}
	}
}

func validateEvidence(method string, ev payments.Evidence) error {
	switch method {
	case models.MethodCash:
		if ev.ReceiverName == "" {
			return fmt.Errorf("%w: cash payment needs a receiver name", ErrMissingEvidence)
		}
	case models.MethodTransfer:
		if ev.TransactionRef == "" {
			return fmt.Errorf("%w: transfer payment needs a transaction reference", ErrMissingEvidence)
		}
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrMissingEvidence, method)
	}
	return nil
}

func loadRegistration(tx *gorm.DB, id string, reg *models.Registration) error {
	err := tx.Preload("GroupMembers").First(reg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRegistrationNotFound
	}
	return err
}

// newRegistrationID generates the time-based opaque token used as both the
// row key and the credential identifier. Millisecond collisions are
// possible under load, so taken ids are skipped.
func newRegistrationID(tx *gorm.DB) string {
	for {
		id := strconv.FormatInt(time.Now().UnixMilli(), 10)
		var count int64
		tx.Model(&models.Registration{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return id
		}
		time.Sleep(time.Millisecond)
	}
}
