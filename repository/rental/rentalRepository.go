package rentalrepo

import (
	"context"
	"database/sql"
	"time"

	"clothingrental/model"
	"clothingrental/util/database"
)

type Repo interface {
	// Creation. The rental row must exist before its items reference it.
	Insert(ctx context.Context, tx database.Tx, r *model.Rental) (int64, error)
	InsertItem(ctx context.Context, tx database.Tx, it *model.RentalItem) error

	Get(ctx context.Context, id int64) (*model.Rental, error)
	GetForUpdate(ctx context.Context, tx database.Tx, id int64) (*model.Rental, error)

	// Confirm is idempotent: confirmed_at is written exactly once.
	Confirm(ctx context.Context, tx database.Tx, id int64, at time.Time) error
	SetPaymentStatus(ctx context.Context, tx database.Tx, id int64, st model.PaymentStatus) error
	SetPaymentInfo(ctx context.Context, tx database.Tx, id int64, method model.PaymentMethod, st model.PaymentStatus, ref *string) error
	SetPaymentReference(ctx context.Context, tx database.Tx, id int64, ref string) error

	ListByUser(ctx context.Context, userID int64) ([]model.Rental, error)
	ListItems(ctx context.Context, rentalID int64) ([]model.RentalItem, error)
	ListItemsByUser(ctx context.Context, userID int64) (map[int64][]model.RentalItem, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const rentalCols = `id, user_id, rental_date, return_date, total_amount, status, notes,
       payment_method, payment_status, payment_reference, confirmed_at, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, tx database.Tx, m *model.Rental) (int64, error) {
	const q = `
INSERT INTO rentals (user_id, rental_date, return_date, total_amount, status, notes, payment_status)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at, updated_at`
	err := tx.QueryRowContext(ctx, q,
		m.UserID, m.RentalDate, m.ReturnDate, m.TotalAmount, m.Status, m.Notes, m.PaymentStatus,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (r *repo) InsertItem(ctx context.Context, tx database.Tx, it *model.RentalItem) error {
	const q = `
INSERT INTO rental_items (rental_id, clothing_item_id, quantity, price_per_day, subtotal)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`
	return tx.QueryRowContext(ctx, q,
		it.RentalID, it.ClothingItemID, it.Quantity, it.PricePerDay, it.Subtotal,
	).Scan(&it.ID)
}

func scanRental(row *sql.Row) (*model.Rental, error) {
	var m model.Rental
	err := row.Scan(
		&m.ID, &m.UserID, &m.RentalDate, &m.ReturnDate, &m.TotalAmount, &m.Status, &m.Notes,
		&m.PaymentMethod, &m.PaymentStatus, &m.PaymentReference, &m.ConfirmedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Rental, error) {
	q := `SELECT ` + rentalCols + ` FROM rentals WHERE id=$1`
	return scanRental(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx database.Tx, id int64) (*model.Rental, error) {
	q := `SELECT ` + rentalCols + ` FROM rentals WHERE id=$1 FOR UPDATE`
	return scanRental(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) Confirm(ctx context.Context, tx database.Tx, id int64, at time.Time) error {
	// COALESCE keeps the first confirmation timestamp on repeat calls.
	const q = `
UPDATE rentals
SET status='confirmed',
    confirmed_at=COALESCE(confirmed_at, $2),
    updated_at=NOW()
WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, at)
	return err
}

func (r *repo) SetPaymentStatus(ctx context.Context, tx database.Tx, id int64, st model.PaymentStatus) error {
	const q = `UPDATE rentals SET payment_status=$2, updated_at=NOW() WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, st)
	return err
}

func (r *repo) SetPaymentInfo(ctx context.Context, tx database.Tx, id int64, method model.PaymentMethod, st model.PaymentStatus, ref *string) error {
	const q = `
UPDATE rentals
SET payment_method=$2,
    payment_status=$3,
    payment_reference=COALESCE($4, payment_reference),
    updated_at=NOW()
WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, method, st, ref)
	return err
}

func (r *repo) SetPaymentReference(ctx context.Context, tx database.Tx, id int64, ref string) error {
	const q = `UPDATE rentals SET payment_reference=$2, updated_at=NOW() WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, ref)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	q := `SELECT ` + rentalCols + ` FROM rentals WHERE user_id=$1 ORDER BY rental_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		var m model.Rental
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.RentalDate, &m.ReturnDate, &m.TotalAmount, &m.Status, &m.Notes,
			&m.PaymentMethod, &m.PaymentStatus, &m.PaymentReference, &m.ConfirmedAt, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) ListItems(ctx context.Context, rentalID int64) ([]model.RentalItem, error) {
	const q = `
SELECT id, rental_id, clothing_item_id, quantity, price_per_day, subtotal
FROM rental_items
WHERE rental_id=$1
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListItemsByUser loads the items of every rental a user owns in one query,
// grouped by rental id.
func (r *repo) ListItemsByUser(ctx context.Context, userID int64) (map[int64][]model.RentalItem, error) {
	const q = `
SELECT ri.id, ri.rental_id, ri.clothing_item_id, ri.quantity, ri.price_per_day, ri.subtotal
FROM rental_items ri
JOIN rentals r ON r.id = ri.rental_id
WHERE r.user_id=$1
ORDER BY ri.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]model.RentalItem, len(items))
	for _, it := range items {
		out[it.RentalID] = append(out[it.RentalID], it)
	}
	return out, nil
}

func scanItems(rows *sql.Rows) ([]model.RentalItem, error) {
	var out []model.RentalItem
	for rows.Next() {
		var it model.RentalItem
		if err := rows.Scan(&it.ID, &it.RentalID, &it.ClothingItemID, &it.Quantity, &it.PricePerDay, &it.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
