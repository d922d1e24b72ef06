package catalogrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clothingrental/model"
	"clothingrental/util/database"

	"github.com/shopspring/decimal"
)

type Filter struct {
	CategoryID *int64
	Size       *string
	Status     *string
	Search     *string
	Limit      int
	Offset     int
}

type Repo interface {
	Create(ctx context.Context, it *model.ClothingItem) (int64, error)
	Get(ctx context.Context, id int64) (*model.ClothingItem, error)
	List(ctx context.Context, f Filter) ([]model.ClothingItem, error)
	Update(ctx context.Context, it *model.ClothingItem) error
	Delete(ctx context.Context, id int64) error

	// PriceForRental reads the pricing snapshot inside the rental-creation
	// transaction.
	PriceForRental(ctx context.Context, tx database.Tx, id int64) (price decimal.Decimal, available bool, err error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const itemCols = `id, name, description, category_id, size, color, brand,
       price_per_day, deposit_amount, status, condition, created_at, updated_at`

func (r *repo) Create(ctx context.Context, it *model.ClothingItem) (int64, error) {
	const q = `
INSERT INTO clothing_items (name, description, category_id, size, color, brand,
                            price_per_day, deposit_amount, status, condition)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q,
		it.Name, it.Description, it.CategoryID, it.Size, it.Color, it.Brand,
		it.PricePerDay, it.DepositAmount, it.Status, it.Condition,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return it.ID, nil
}

func (r *repo) Get(ctx context.Context, id int64) (*model.ClothingItem, error) {
	q := `SELECT ` + itemCols + ` FROM clothing_items WHERE id=$1`
	var it model.ClothingItem
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&it.ID, &it.Name, &it.Description, &it.CategoryID, &it.Size, &it.Color, &it.Brand,
		&it.PricePerDay, &it.DepositAmount, &it.Status, &it.Condition, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.ClothingItem, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CategoryID != nil {
		add("category_id=$%d", *f.CategoryID)
	}
	if f.Size != nil {
		add("size=$%d", *f.Size)
	}
	if f.Status != nil {
		add("status=$%d", *f.Status)
	}
	if f.Search != nil {
		args = append(args, "%"+*f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	q := `SELECT ` + itemCols + ` FROM clothing_items`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ClothingItem
	for rows.Next() {
		var it model.ClothingItem
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Description, &it.CategoryID, &it.Size, &it.Color, &it.Brand,
			&it.PricePerDay, &it.DepositAmount, &it.Status, &it.Condition, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, it *model.ClothingItem) error {
	const q = `
UPDATE clothing_items
SET name=$2, description=$3, category_id=$4, size=$5, color=$6, brand=$7,
    price_per_day=$8, deposit_amount=$9, status=$10, condition=$11, updated_at=NOW()
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		it.ID, it.Name, it.Description, it.CategoryID, it.Size, it.Color, it.Brand,
		it.PricePerDay, it.DepositAmount, it.Status, it.Condition,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clothing_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) PriceForRental(ctx context.Context, tx database.Tx, id int64) (decimal.Decimal, bool, error) {
	const q = `SELECT price_per_day, status='available' FROM clothing_items WHERE id=$1`
	var (
		price     decimal.Decimal
		available bool
	)
	if err := tx.QueryRowContext(ctx, q, id).Scan(&price, &available); err != nil {
		return decimal.Decimal{}, false, err
	}
	return price, available, nil
}
