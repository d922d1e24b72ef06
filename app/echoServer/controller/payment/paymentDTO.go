package payment

import "github.com/shopspring/decimal"

type RecordPaymentReq struct {
	RentalID             int64           `json:"rental_id" validate:"required,gt=0"`
	Amount               decimal.Decimal `json:"amount"`
	Method               string          `json:"method" validate:"required,oneof=cash card online"`
	TransactionReference *string         `json:"transaction_reference,omitempty" validate:"omitempty,max=255"`
}

type CreateCashPaymentReq struct {
	RentalID int64           `json:"rental_id" validate:"required,gt=0"`
	Amount   decimal.Decimal `json:"amount"`
}

type ConfirmCashPaymentReq struct {
	AmountReceived decimal.Decimal `json:"amount_received"`
	Notes          *string         `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type ProcessCardPaymentReq struct {
	RentalID        int64           `json:"rental_id" validate:"required,gt=0"`
	Amount          decimal.Decimal `json:"amount"`
	StripePaymentID string          `json:"stripe_payment_id" validate:"required"`
	PaymentIntentID string          `json:"payment_intent_id" validate:"required"`
}
