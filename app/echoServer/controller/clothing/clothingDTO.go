package clothing

import "github.com/shopspring/decimal"

type ItemReq struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    int64           `json:"category_id" validate:"required,gt=0"`
	Size          string          `json:"size" validate:"required,oneof=XS S M L XL XXL"`
	Color         *string         `json:"color,omitempty" validate:"omitempty,max=100"`
	Brand         *string         `json:"brand,omitempty" validate:"omitempty,max=100"`
	PricePerDay   decimal.Decimal `json:"price_per_day"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Status        *string         `json:"status,omitempty" validate:"omitempty,oneof=available rented maintenance cleaning"`
	Condition     *string         `json:"condition,omitempty" validate:"omitempty,oneof=new excellent good fair"`
}
