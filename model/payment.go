package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodOnline:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	// No operation transitions into refunded yet; the status exists for
	// schema compatibility only.
	PaymentRefunded PaymentStatus = "refunded"
)

// Known keys of the payment details bag. The bag is append-only: producers
// add keys, nothing removes them.
const (
	DetailConfirmedBy       = "confirmed_by"
	DetailAmountReceived    = "amount_received"
	DetailConfirmationNotes = "confirmation_notes"
	DetailConfirmedAt       = "confirmed_at"
	DetailPaymentIntentID   = "payment_intent_id"
	DetailProcessedAt       = "processed_at"
	DetailFailureReason     = "failure_reason"
)

type Payment struct {
	ID                   int64           `json:"id"`
	RentalID             int64           `json:"rental_id"`
	Amount               decimal.Decimal `json:"amount"`
	Method               PaymentMethod   `json:"method"`
	Status               PaymentStatus   `json:"status"`
	TransactionReference *string         `json:"transaction_reference,omitempty"`
	StripePaymentID      *string         `json:"stripe_payment_id,omitempty"`
	Details              map[string]any  `json:"payment_details,omitempty"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (p *Payment) IsPaid() bool    { return p.Status == PaymentPaid }
func (p *Payment) IsPending() bool { return p.Status == PaymentPending }
func (p *Payment) IsFailed() bool  { return p.Status == PaymentFailed }
