package rentalsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clothingrental/apperr"
	"clothingrental/model"
	"clothingrental/service/pricing"
	"clothingrental/util/database"
	"clothingrental/util/reference"

	"github.com/shopspring/decimal"
)

type CreateItem struct {
	ClothingItemID int64
	Quantity       int64
}

type CreateReq struct {
	RentalDate time.Time
	ReturnDate time.Time
	Notes      *string
	Items      []CreateItem
}

// Repo is the slice of the rental repository this service needs.
type Repo interface {
	Insert(ctx context.Context, tx database.Tx, r *model.Rental) (int64, error)
	InsertItem(ctx context.Context, tx database.Tx, it *model.RentalItem) error
	SetPaymentReference(ctx context.Context, tx database.Tx, id int64, ref string) error
	ListByUser(ctx context.Context, userID int64) ([]model.Rental, error)
	ListItems(ctx context.Context, rentalID int64) ([]model.RentalItem, error)
	ListItemsByUser(ctx context.Context, userID int64) (map[int64][]model.RentalItem, error)
}

type CatalogRepo interface {
	PriceForRental(ctx context.Context, tx database.Tx, id int64) (decimal.Decimal, bool, error)
}

type Service interface {
	// Create persists a pending rental with its items and computed total in
	// one atomic unit.
	Create(ctx context.Context, userID int64, req CreateReq) (*model.RentalWithItems, error)

	// MyRentals lists a user's rentals newest rental date first, items loaded.
	MyRentals(ctx context.Context, userID int64) ([]model.RentalWithItems, error)
}

type service struct {
	db database.Beginner
	r  Repo
	c  CatalogRepo
}

func New(db database.Beginner, r Repo, c CatalogRepo) Service {
	return &service{db: db, r: r, c: c}
}

func (s *service) Create(ctx context.Context, userID int64, req CreateReq) (_ *model.RentalWithItems, err error) {
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.Validation, "at least one item is required").
			WithField("items", "must not be empty")
	}
	if !req.ReturnDate.After(req.RentalDate) {
		return nil, apperr.New(apperr.Validation, "return date must be after rental date").
			WithField("return_date", "must be after rental_date")
	}
	for i, it := range req.Items {
		if it.Quantity < 1 {
			return nil, apperr.Newf(apperr.Validation, "item %d: quantity must be at least 1", i).
				WithField("quantity", "must be >= 1")
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Snapshot catalog prices inside the transaction so the rental's money
	// is frozen against later catalog edits.
	prices := make([]decimal.Decimal, len(req.Items))
	lines := make([]pricing.LineItem, len(req.Items))
	for i, it := range req.Items {
		price, _, perr := s.c.PriceForRental(ctx, tx, it.ClothingItemID)
		if perr != nil {
			if errors.Is(perr, sql.ErrNoRows) {
				return nil, apperr.Newf(apperr.NotFound, "clothing item %d not found", it.ClothingItemID)
			}
			return nil, perr
		}
		prices[i] = price
		lines[i] = pricing.LineItem{UnitPricePerDay: price, Quantity: it.Quantity}
	}

	quote, err := pricing.Compute(lines, req.RentalDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	rental := &model.Rental{
		UserID:        userID,
		RentalDate:    req.RentalDate,
		ReturnDate:    req.ReturnDate,
		TotalAmount:   quote.Total,
		Status:        model.RentalPending,
		Notes:         req.Notes,
		PaymentStatus: model.PaymentPending,
	}
	rentalID, err := s.r.Insert(ctx, tx, rental)
	if err != nil {
		return nil, err
	}

	items := make([]model.RentalItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = model.RentalItem{
			RentalID:       rentalID,
			ClothingItemID: it.ClothingItemID,
			Quantity:       it.Quantity,
			PricePerDay:    prices[i],
			Subtotal:       quote.Subtotals[i],
		}
		if err = s.r.InsertItem(ctx, tx, &items[i]); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &model.RentalWithItems{Rental: *rental, Items: items}, nil
}

func (s *service) MyRentals(ctx context.Context, userID int64) ([]model.RentalWithItems, error) {
	rentals, err := s.r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	itemsByRental, err := s.r.ListItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]model.RentalWithItems, 0, len(rentals))
	for _, rental := range rentals {
		out = append(out, model.RentalWithItems{
			Rental: rental,
			Items:  itemsByRental[rental.ID],
		})
	}
	return out, nil
}

// ReferenceWriter persists a generated payment reference.
type ReferenceWriter interface {
	SetPaymentReference(ctx context.Context, tx database.Tx, id int64, ref string) error
}

// EnsurePaymentReference returns the rental's payment reference, generating
// and persisting one on first use. Repeat calls return the stored value
// unchanged.
func EnsurePaymentReference(ctx context.Context, tx database.Tx, r ReferenceWriter, rental *model.Rental) (string, error) {
	if rental.PaymentReference != nil && *rental.PaymentReference != "" {
		return *rental.PaymentReference, nil
	}
	ref := reference.Payment(rental.ID)
	if err := r.SetPaymentReference(ctx, tx, rental.ID, ref); err != nil {
		return "", err
	}
	rental.PaymentReference = &ref
	return ref, nil
}
