// Package paymentsvc owns the payment lifecycle and its rental-confirmation
// side effects. Every operation that touches both a payment and its rental
// runs inside one transaction, so readers never observe the two disagreeing.
package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clothingrental/apperr"
	"clothingrental/model"
	paymentrepo "clothingrental/repository/payment"
	rentalsvc "clothingrental/service/rental"
	"clothingrental/util/database"
	"clothingrental/util/reference"

	"github.com/shopspring/decimal"
)

// RentalRepo is the slice of the rental repository the ledger drives.
type RentalRepo interface {
	Get(ctx context.Context, id int64) (*model.Rental, error)
	GetForUpdate(ctx context.Context, tx database.Tx, id int64) (*model.Rental, error)
	Confirm(ctx context.Context, tx database.Tx, id int64, at time.Time) error
	SetPaymentStatus(ctx context.Context, tx database.Tx, id int64, st model.PaymentStatus) error
	SetPaymentInfo(ctx context.Context, tx database.Tx, id int64, method model.PaymentMethod, st model.PaymentStatus, ref *string) error
	SetPaymentReference(ctx context.Context, tx database.Tx, id int64, ref string) error
}

type PaymentRepo interface {
	Insert(ctx context.Context, tx database.Tx, p *model.Payment) (int64, error)
	GetByRental(ctx context.Context, rentalID int64) (*model.Payment, error)
	GetByRentalForUpdate(ctx context.Context, tx database.Tx, rentalID int64) (*model.Payment, error)
	ExistsForRental(ctx context.Context, tx database.Tx, rentalID int64) (bool, error)
	MarkPaid(ctx context.Context, tx database.Tx, id int64, at time.Time, reference *string) error
	MarkFailed(ctx context.Context, tx database.Tx, id int64) error
	SetDetails(ctx context.Context, tx database.Tx, id int64, details map[string]any) error
	ListPendingCash(ctx context.Context) ([]paymentrepo.PendingCashRow, error)
}

// StatusView is the read-only payment projection for a rental.
type StatusView struct {
	RentalID         int64                `json:"rental_id"`
	PaymentMethod    *model.PaymentMethod `json:"payment_method"`
	PaymentStatus    model.PaymentStatus  `json:"payment_status"`
	PaymentReference *string              `json:"payment_reference"`
	IsPaid           bool                 `json:"is_paid"`
	IsConfirmed      bool                 `json:"is_confirmed"`
	Payment          *model.Payment       `json:"payment"`
}

type Service interface {
	// Record registers an already-settled payment (generic/online flow):
	// marks it paid immediately and confirms the rental.
	Record(ctx context.Context, rentalID int64, amount decimal.Decimal, method model.PaymentMethod, ref *string) (*model.Payment, *model.Rental, error)

	// CreateCash opens a pending cash payment and stamps the rental with its
	// payment reference.
	CreateCash(ctx context.Context, rentalID int64, amount decimal.Decimal) (*model.Payment, *model.Rental, string, error)

	// ConfirmCash settles a pending cash payment and confirms the rental.
	ConfirmCash(ctx context.Context, rentalID int64, confirmedBy string, amountReceived decimal.Decimal, notes *string) (*model.Payment, *model.Rental, error)

	// ProcessCard records a pre-authorized card charge and confirms the
	// rental in one step; no pending state is ever observable.
	ProcessCard(ctx context.Context, rentalID int64, amount decimal.Decimal, stripePaymentID, paymentIntentID string) (*model.Payment, *model.Rental, error)

	// Fail marks a pending payment failed, recording the reason.
	Fail(ctx context.Context, rentalID int64, reason *string) (*model.Payment, error)

	Status(ctx context.Context, rentalID int64) (*StatusView, error)
	PendingCash(ctx context.Context) ([]paymentrepo.PendingCashRow, error)
}

type service struct {
	db  database.Beginner
	p   PaymentRepo
	r   RentalRepo
	now func() time.Time
}

// New wires the ledger. now is the clock used for paid_at/confirmed_at;
// pass time.Now outside of tests.
func New(db database.Beginner, p PaymentRepo, r RentalRepo, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{db: db, p: p, r: r, now: now}
}

func (s *service) Record(ctx context.Context, rentalID int64, amount decimal.Decimal, method model.PaymentMethod, ref *string) (_ *model.Payment, _ *model.Rental, err error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}
	if !method.Valid() {
		return nil, nil, apperr.Newf(apperr.Validation, "unknown payment method %q", method).
			WithField("method", "must be one of cash, card, online")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rental, err := s.lockRental(ctx, tx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if err = s.guardNoPayment(ctx, tx, rentalID); err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	payment := &model.Payment{
		RentalID:             rentalID,
		Amount:               amount,
		Method:               method,
		Status:               model.PaymentPaid,
		TransactionReference: ref,
		PaidAt:               &now,
	}
	if _, err = s.p.Insert(ctx, tx, payment); err != nil {
		return nil, nil, err
	}

	if err = s.settleRental(ctx, tx, rental, now); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}
	return payment, rental, nil
}

func (s *service) CreateCash(ctx context.Context, rentalID int64, amount decimal.Decimal) (_ *model.Payment, _ *model.Rental, _ string, err error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, "", err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rental, err := s.lockRental(ctx, tx, rentalID)
	if err != nil {
		return nil, nil, "", err
	}
	if err = s.guardNoPayment(ctx, tx, rentalID); err != nil {
		return nil, nil, "", err
	}

	ref, err := rentalsvc.EnsurePaymentReference(ctx, tx, s.r, rental)
	if err != nil {
		return nil, nil, "", err
	}

	payment := &model.Payment{
		RentalID:             rentalID,
		Amount:               amount,
		Method:               model.MethodCash,
		Status:               model.PaymentPending,
		TransactionReference: &ref,
	}
	if _, err = s.p.Insert(ctx, tx, payment); err != nil {
		return nil, nil, "", err
	}

	if err = s.r.SetPaymentInfo(ctx, tx, rentalID, model.MethodCash, model.PaymentPending, &ref); err != nil {
		return nil, nil, "", err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, "", err
	}

	method := model.MethodCash
	rental.PaymentMethod = &method
	rental.PaymentStatus = model.PaymentPending
	return payment, rental, ref, nil
}

func (s *service) ConfirmCash(ctx context.Context, rentalID int64, confirmedBy string, amountReceived decimal.Decimal, notes *string) (_ *model.Payment, _ *model.Rental, err error) {
	if err := validateAmount(amountReceived); err != nil {
		return nil, nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rental, err := s.lockRental(ctx, tx, rentalID)
	if err != nil {
		return nil, nil, err
	}

	payment, err := s.p.GetByRentalForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperr.New(apperr.NotFound, "no cash payment found for this rental")
		}
		return nil, nil, err
	}
	if payment.Method != model.MethodCash {
		return nil, nil, apperr.New(apperr.NotFound, "no cash payment found for this rental")
	}
	if payment.IsPaid() {
		return nil, nil, apperr.New(apperr.InvalidState, "payment already confirmed")
	}
	if payment.IsFailed() {
		return nil, nil, apperr.New(apperr.InvalidState, "payment already failed")
	}

	now := s.now().UTC()
	cashRef := reference.Cash()
	if err = s.p.MarkPaid(ctx, tx, payment.ID, now, &cashRef); err != nil {
		return nil, nil, err
	}

	details := mergeDetails(payment.Details, map[string]any{
		model.DetailConfirmedBy:       confirmedBy,
		model.DetailAmountReceived:    amountReceived.String(),
		model.DetailConfirmationNotes: notes,
		model.DetailConfirmedAt:       now.Format(time.RFC3339),
	})
	if err = s.p.SetDetails(ctx, tx, payment.ID, details); err != nil {
		return nil, nil, err
	}

	if err = s.settleRental(ctx, tx, rental, now); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}

	payment.Status = model.PaymentPaid
	payment.PaidAt = &now
	payment.TransactionReference = &cashRef
	payment.Details = details
	return payment, rental, nil
}

func (s *service) ProcessCard(ctx context.Context, rentalID int64, amount decimal.Decimal, stripePaymentID, paymentIntentID string) (_ *model.Payment, _ *model.Rental, err error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}
	if stripePaymentID == "" || paymentIntentID == "" {
		return nil, nil, apperr.New(apperr.Validation, "gateway identifiers are required").
			WithField("stripe_payment_id", "required").
			WithField("payment_intent_id", "required")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rental, err := s.lockRental(ctx, tx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if err = s.guardNoPayment(ctx, tx, rentalID); err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	payment := &model.Payment{
		RentalID:             rentalID,
		Amount:               amount,
		Method:               model.MethodCard,
		Status:               model.PaymentPaid,
		TransactionReference: &paymentIntentID,
		StripePaymentID:      &stripePaymentID,
		PaidAt:               &now,
		Details: map[string]any{
			model.DetailPaymentIntentID: paymentIntentID,
			model.DetailProcessedAt:     now.Format(time.RFC3339),
		},
	}
	if _, err = s.p.Insert(ctx, tx, payment); err != nil {
		return nil, nil, err
	}

	if err = s.r.SetPaymentInfo(ctx, tx, rentalID, model.MethodCard, model.PaymentPaid, nil); err != nil {
		return nil, nil, err
	}
	if err = s.r.Confirm(ctx, tx, rentalID, now); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}

	method := model.MethodCard
	rental.PaymentMethod = &method
	rental.PaymentStatus = model.PaymentPaid
	markConfirmed(rental, now)
	return payment, rental, nil
}

func (s *service) Fail(ctx context.Context, rentalID int64, reason *string) (_ *model.Payment, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	payment, err := s.p.GetByRentalForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "no payment found for this rental")
		}
		return nil, err
	}
	if payment.IsPaid() || payment.IsFailed() {
		return nil, apperr.Newf(apperr.InvalidState, "payment is already %s", payment.Status)
	}

	if err = s.p.MarkFailed(ctx, tx, payment.ID); err != nil {
		return nil, err
	}
	if reason != nil {
		payment.Details = mergeDetails(payment.Details, map[string]any{
			model.DetailFailureReason: *reason,
		})
		if err = s.p.SetDetails(ctx, tx, payment.ID, payment.Details); err != nil {
			return nil, err
		}
	}
	if err = s.r.SetPaymentStatus(ctx, tx, rentalID, model.PaymentFailed); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	payment.Status = model.PaymentFailed
	return payment, nil
}

func (s *service) Status(ctx context.Context, rentalID int64) (*StatusView, error) {
	rental, err := s.r.Get(ctx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "rental not found")
		}
		return nil, err
	}

	payment, err := s.p.GetByRental(ctx, rentalID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return &StatusView{
		RentalID:         rental.ID,
		PaymentMethod:    rental.PaymentMethod,
		PaymentStatus:    rental.PaymentStatus,
		PaymentReference: rental.PaymentReference,
		IsPaid:           rental.IsPaid(),
		IsConfirmed:      rental.IsConfirmed(),
		Payment:          payment,
	}, nil
}

func (s *service) PendingCash(ctx context.Context) ([]paymentrepo.PendingCashRow, error) {
	return s.p.ListPendingCash(ctx)
}

// ----- helpers -----

func (s *service) lockRental(ctx context.Context, tx database.Tx, rentalID int64) (*model.Rental, error) {
	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "rental not found")
		}
		return nil, err
	}
	return rental, nil
}

// guardNoPayment enforces the one-payment-per-rental invariant.
func (s *service) guardNoPayment(ctx context.Context, tx database.Tx, rentalID int64) error {
	exists, err := s.p.ExistsForRental(ctx, tx, rentalID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.New(apperr.Conflict, "a payment already exists for this rental")
	}
	return nil
}

// settleRental projects the paid status onto the rental and confirms it,
// inside the caller's transaction.
func (s *service) settleRental(ctx context.Context, tx database.Tx, rental *model.Rental, now time.Time) error {
	if err := s.r.SetPaymentStatus(ctx, tx, rental.ID, model.PaymentPaid); err != nil {
		return err
	}
	if err := s.r.Confirm(ctx, tx, rental.ID, now); err != nil {
		return err
	}
	rental.PaymentStatus = model.PaymentPaid
	markConfirmed(rental, now)
	return nil
}

func markConfirmed(rental *model.Rental, now time.Time) {
	rental.Status = model.RentalConfirmed
	if rental.ConfirmedAt == nil {
		rental.ConfirmedAt = &now
	}
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperr.New(apperr.Validation, "amount must not be negative").
			WithField("amount", "must be >= 0")
	}
	return nil
}

func mergeDetails(existing, add map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(add))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range add {
		if v == nil {
			continue
		}
		if p, ok := v.(*string); ok {
			if p == nil {
				continue
			}
			v = *p
		}
		out[k] = v
	}
	return out
}
