package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemStatus string

const (
	ItemAvailable   ItemStatus = "available"
	ItemRented      ItemStatus = "rented"
	ItemMaintenance ItemStatus = "maintenance"
	ItemCleaning    ItemStatus = "cleaning"
)

type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type ClothingItem struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    int64           `json:"category_id"`
	Size          string          `json:"size"`
	Color         *string         `json:"color,omitempty"`
	Brand         *string         `json:"brand,omitempty"`
	PricePerDay   decimal.Decimal `json:"price_per_day"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Status        ItemStatus      `json:"status"`
	Condition     string          `json:"condition"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (c *ClothingItem) IsAvailable() bool { return c.Status == ItemAvailable }
