package rental

type CreateRentalItemReq struct {
	ClothingItemID int64 `json:"clothing_item_id" validate:"required,gt=0"`
	Quantity       int64 `json:"quantity" validate:"required,min=1"`
}

type CreateRentalReq struct {
	RentalDate string                `json:"rental_date" validate:"required"`
	ReturnDate string                `json:"return_date" validate:"required"`
	Notes      *string               `json:"notes,omitempty"`
	Items      []CreateRentalItemReq `json:"items" validate:"required,min=1,dive"`
}
