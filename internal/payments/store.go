// Package payments is the append-only log of payment attempts. The store is
// the single writer of Payment rows; it never touches the owning
// registration's money fields. Higher layers recompute those from
// SumApproved after every mutation.
package payments

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/akoka-events/crossover-tickets-api/internal/models"
)

// ErrPaymentNotFound is returned when the referenced payment row does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrAlreadyApproved is returned when an approval targets a payment that is
// already approved. A second approval is an explicit error, not a no-op, so
// double-clicking admins see what happened.
var ErrAlreadyApproved = errors.New("payment already approved")

// Evidence carries the method-specific proof attached to a payment.
type Evidence struct {
	ReceiverName   string
	TransactionRef string
	ReceiptImage   string
	Notes          string
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a store bound to tx so appends and approvals can join a
// caller-owned transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Append records one payment attempt. Cash self-approves with the receiving
// staff member as approver; transfers start pending.
func (s *Store) Append(ctx context.Context, registrationID string, amount int, method string, ev Evidence) (*models.Payment, error) {
	payment := models.Payment{
		RegistrationID: registrationID,
		Amount:         amount,
		Method:         method,
		ReceiverName:   ev.ReceiverName,
		TransactionRef: ev.TransactionRef,
		ReceiptImage:   ev.ReceiptImage,
		Notes:          ev.Notes,
		Status:         models.PaymentPending,
	}
	if method == models.MethodCash {
		now := time.Now()
		payment.Status = models.PaymentApproved
		payment.ApprovedBy = ev.ReceiverName
		payment.ApprovedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Get returns one payment row by id.
func (s *Store) Get(ctx context.Context, paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).First(&payment, paymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByRegistration returns all payments for a registration in creation
// order.
func (s *Store) ListByRegistration(ctx context.Context, registrationID string) ([]models.Payment, error) {
	var rows []models.Payment
	err := s.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OldestPending returns the registration's oldest payment still awaiting
// approval, or ErrPaymentNotFound if there is none.
func (s *Store) OldestPending(ctx context.Context, registrationID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).
		Where("registration_id = ? AND status = ?", registrationID, models.PaymentPending).
		Order("created_at asc, id asc").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkApproved flips a pending payment to approved and stamps the approval
// metadata. The update is guarded on the pending status so two concurrent
// approvals of the same row cannot both succeed.
func (s *Store) MarkApproved(ctx context.Context, paymentID uint, approver string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status == models.PaymentApproved {
		return nil, ErrAlreadyApproved
	}

	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentPending).
		Updates(map[string]interface{}{
			"status":      models.PaymentApproved,
			"approved_by": approver,
			"approved_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to another approver.
		return nil, ErrAlreadyApproved
	}

	payment.Status = models.PaymentApproved
	payment.ApprovedBy = approver
	payment.ApprovedAt = &now
	return &payment, nil
}

// SumApproved returns the authoritative total of approved payment amounts
// for a registration.
func (s *Store) SumApproved(ctx context.Context, registrationID string) (int, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("registration_id = ? AND status = ?", registrationID, models.PaymentApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
