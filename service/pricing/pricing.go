// Package pricing computes rental money. Pure functions, no I/O.
package pricing

import (
	"time"

	"clothingrental/apperr"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	UnitPricePerDay decimal.Decimal
	Quantity        int64
}

type Quote struct {
	Days      int64
	Subtotals []decimal.Decimal
	Total     decimal.Decimal
}

// Days returns the billable duration: whole days between the two dates,
// never less than one so a same-day rental still bills a full day.
func Days(rentalDate, returnDate time.Time) int64 {
	d := int64(returnDate.Sub(rentalDate).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Compute prices a rental. Each subtotal is rounded half-up to two decimal
// places before summation so the total always equals the sum of the stored
// subtotals.
func Compute(items []LineItem, rentalDate, returnDate time.Time) (*Quote, error) {
	if len(items) == 0 {
		return nil, apperr.New(apperr.Validation, "at least one item is required").
			WithField("items", "must not be empty")
	}
	if !returnDate.After(rentalDate) {
		return nil, apperr.New(apperr.Validation, "return date must be after rental date").
			WithField("return_date", "must be after rental_date")
	}

	days := Days(rentalDate, returnDate)
	daysDec := decimal.NewFromInt(days)

	q := &Quote{Days: days, Subtotals: make([]decimal.Decimal, 0, len(items))}
	for i, it := range items {
		if it.Quantity < 1 {
			return nil, apperr.Newf(apperr.Validation, "item %d: quantity must be at least 1", i).
				WithField("quantity", "must be >= 1")
		}
		if it.UnitPricePerDay.IsNegative() {
			return nil, apperr.Newf(apperr.Validation, "item %d: price per day must not be negative", i).
				WithField("price_per_day", "must be >= 0")
		}
		sub := it.UnitPricePerDay.
			Mul(decimal.NewFromInt(it.Quantity)).
			Mul(daysDec).
			Round(2)
		q.Subtotals = append(q.Subtotals, sub)
		q.Total = q.Total.Add(sub)
	}
	return q, nil
}
