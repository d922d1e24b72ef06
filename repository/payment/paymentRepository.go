package paymentrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"clothingrental/model"
	"clothingrental/util/database"

	"github.com/shopspring/decimal"
)

// PendingCashRow is a pending cash payment joined with its rental and owner
// for the administrative review list.
type PendingCashRow struct {
	PaymentID   int64           `json:"payment_id"`
	RentalID    int64           `json:"rental_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   *string         `json:"transaction_reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	RentalDate  time.Time       `json:"rental_date"`
	ReturnDate  time.Time       `json:"return_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UserID      int64           `json:"user_id"`
	UserName    string          `json:"user_name"`
	UserEmail   string          `json:"user_email"`
}

type Repo interface {
	Insert(ctx context.Context, tx database.Tx, p *model.Payment) (int64, error)
	GetByRental(ctx context.Context, rentalID int64) (*model.Payment, error)
	GetByRentalForUpdate(ctx context.Context, tx database.Tx, rentalID int64) (*model.Payment, error)
	ExistsForRental(ctx context.Context, tx database.Tx, rentalID int64) (bool, error)

	MarkPaid(ctx context.Context, tx database.Tx, id int64, at time.Time, reference *string) error
	MarkFailed(ctx context.Context, tx database.Tx, id int64) error
	SetDetails(ctx context.Context, tx database.Tx, id int64, details map[string]any) error

	ListPendingCash(ctx context.Context) ([]PendingCashRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx database.Tx, p *model.Payment) (int64, error) {
	details, err := marshalDetails(p.Details)
	if err != nil {
		return 0, err
	}
	const q = `
INSERT INTO payments (rental_id, amount, method, status, transaction_reference,
                      stripe_payment_id, payment_details, paid_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, q,
		p.RentalID, p.Amount, p.Method, p.Status, p.TransactionReference,
		p.StripePaymentID, details, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

const paymentCols = `id, rental_id, amount, method, status, transaction_reference,
       stripe_payment_id, payment_details, paid_at, created_at, updated_at`

func scanPayment(row *sql.Row) (*model.Payment, error) {
	var (
		p       model.Payment
		details []byte
	)
	err := row.Scan(
		&p.ID, &p.RentalID, &p.Amount, &p.Method, &p.Status, &p.TransactionReference,
		&p.StripePaymentID, &details, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &p.Details); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *repo) GetByRental(ctx context.Context, rentalID int64) (*model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE rental_id=$1 ORDER BY id DESC LIMIT 1`
	return scanPayment(r.db.QueryRowContext(ctx, q, rentalID))
}

func (r *repo) GetByRentalForUpdate(ctx context.Context, tx database.Tx, rentalID int64) (*model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE rental_id=$1 ORDER BY id DESC LIMIT 1 FOR UPDATE`
	return scanPayment(tx.QueryRowContext(ctx, q, rentalID))
}

func (r *repo) ExistsForRental(ctx context.Context, tx database.Tx, rentalID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM payments WHERE rental_id=$1)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, rentalID).Scan(&exists)
	return exists, err
}

func (r *repo) MarkPaid(ctx context.Context, tx database.Tx, id int64, at time.Time, reference *string) error {
	const q = `
UPDATE payments
SET status='paid',
    paid_at=$2,
    transaction_reference=COALESCE($3, transaction_reference),
    updated_at=NOW()
WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, at, reference)
	return err
}

func (r *repo) MarkFailed(ctx context.Context, tx database.Tx, id int64) error {
	const q = `UPDATE payments SET status='failed', updated_at=NOW() WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

func (r *repo) SetDetails(ctx context.Context, tx database.Tx, id int64, details map[string]any) error {
	b, err := marshalDetails(details)
	if err != nil {
		return err
	}
	const q = `UPDATE payments SET payment_details=$2, updated_at=NOW() WHERE id=$1`
	_, err = tx.ExecContext(ctx, q, id, b)
	return err
}

func (r *repo) ListPendingCash(ctx context.Context) ([]PendingCashRow, error) {
	const q = `
SELECT p.id, p.rental_id, p.amount, p.transaction_reference, p.created_at,
       r.rental_date, r.return_date, r.total_amount,
       u.id, u.first_name || ' ' || u.last_name, u.email
FROM payments p
JOIN rentals r ON r.id = p.rental_id
JOIN users u ON u.id = r.user_id
WHERE p.method='cash' AND p.status='pending'
ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingCashRow
	for rows.Next() {
		var row PendingCashRow
		if err := rows.Scan(
			&row.PaymentID, &row.RentalID, &row.Amount, &row.Reference, &row.CreatedAt,
			&row.RentalDate, &row.ReturnDate, &row.TotalAmount,
			&row.UserID, &row.UserName, &row.UserEmail,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func marshalDetails(d map[string]any) ([]byte, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return json.Marshal(d)
}
