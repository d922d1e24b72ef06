package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalConfirmed RentalStatus = "confirmed"
)

type Rental struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	RentalDate       time.Time       `json:"rental_date"`
	ReturnDate       time.Time       `json:"return_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           RentalStatus    `json:"status"`
	Notes            *string         `json:"notes,omitempty"`
	PaymentMethod    *PaymentMethod  `json:"payment_method,omitempty"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	ConfirmedAt      *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (r *Rental) IsPaid() bool { return r.PaymentStatus == PaymentPaid }

func (r *Rental) IsConfirmed() bool {
	return r.Status == RentalConfirmed || r.ConfirmedAt != nil
}

type RentalItem struct {
	ID             int64           `json:"id"`
	RentalID       int64           `json:"rental_id"`
	ClothingItemID int64           `json:"clothing_item_id"`
	Quantity       int64           `json:"quantity"`
	PricePerDay    decimal.Decimal `json:"price_per_day"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type RentalWithItems struct {
	Rental
	Items []RentalItem `json:"items"`
}
