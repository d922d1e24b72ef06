package rentalsvc

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"clothingrental/apperr"
	"clothingrental/model"
	"clothingrental/util/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ----- fakes -----

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, nil
}
func (t *fakeTx) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRowContext(context.Context, string, ...any) *sql.Row { return nil }
func (t *fakeTx) Commit() error                                            { t.committed = true; return nil }
func (t *fakeTx) Rollback() error                                          { t.rolledBack = true; return nil }

type fakeDB struct {
	begun int
	tx    *fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	d.begun++
	d.tx = &fakeTx{}
	return d.tx, nil
}

type repoMock struct {
	insertFn          func(ctx context.Context, tx database.Tx, r *model.Rental) (int64, error)
	insertItemFn      func(ctx context.Context, tx database.Tx, it *model.RentalItem) error
	setPaymentRefFn   func(ctx context.Context, tx database.Tx, id int64, ref string) error
	listByUserFn      func(ctx context.Context, userID int64) ([]model.Rental, error)
	listItemsFn       func(ctx context.Context, rentalID int64) ([]model.RentalItem, error)
	listItemsByUserFn func(ctx context.Context, userID int64) (map[int64][]model.RentalItem, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Insert(ctx context.Context, tx database.Tx, r *model.Rental) (int64, error) {
	return m.insertFn(ctx, tx, r)
}
func (m *repoMock) InsertItem(ctx context.Context, tx database.Tx, it *model.RentalItem) error {
	return m.insertItemFn(ctx, tx, it)
}
func (m *repoMock) SetPaymentReference(ctx context.Context, tx database.Tx, id int64, ref string) error {
	return m.setPaymentRefFn(ctx, tx, id, ref)
}
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	return m.listByUserFn(ctx, userID)
}
func (m *repoMock) ListItems(ctx context.Context, rentalID int64) ([]model.RentalItem, error) {
	return m.listItemsFn(ctx, rentalID)
}
func (m *repoMock) ListItemsByUser(ctx context.Context, userID int64) (map[int64][]model.RentalItem, error) {
	return m.listItemsByUserFn(ctx, userID)
}

type catalogMock struct {
	prices map[int64]decimal.Decimal
}

func (m *catalogMock) PriceForRental(ctx context.Context, tx database.Tx, id int64) (decimal.Decimal, bool, error) {
	p, ok := m.prices[id]
	if !ok {
		return decimal.Decimal{}, false, sql.ErrNoRows
	}
	return p, true, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ----- tests -----

func TestCreate_Success(t *testing.T) {
	db := &fakeDB{}
	var insertedItems []model.RentalItem
	m := &repoMock{
		insertFn: func(ctx context.Context, tx database.Tx, r *model.Rental) (int64, error) {
			require.Empty(t, insertedItems, "rental must be inserted before its items")
			r.ID = 7
			return 7, nil
		},
		insertItemFn: func(ctx context.Context, tx database.Tx, it *model.RentalItem) error {
			insertedItems = append(insertedItems, *it)
			return nil
		},
	}
	cat := &catalogMock{prices: map[int64]decimal.Decimal{
		1: dec("100.00"),
		2: dec("50.00"),
	}}

	svc := New(db, m, cat)
	out, err := svc.Create(context.Background(), 42, CreateReq{
		RentalDate: date("2025-01-01"),
		ReturnDate: date("2025-01-03"),
		Items: []CreateItem{
			{ClothingItemID: 1, Quantity: 2},
			{ClothingItemID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.EqualValues(t, 7, out.ID)
	require.EqualValues(t, 42, out.UserID)
	require.Equal(t, model.RentalPending, out.Status)
	require.Equal(t, model.PaymentPending, out.PaymentStatus)
	require.True(t, out.TotalAmount.Equal(dec("500.00")), "total %s", out.TotalAmount)

	require.Len(t, insertedItems, 2)
	require.True(t, insertedItems[0].Subtotal.Equal(dec("400.00")))
	require.True(t, insertedItems[1].Subtotal.Equal(dec("100.00")))
	require.True(t, insertedItems[0].PricePerDay.Equal(dec("100.00")), "price is snapshotted")
	require.EqualValues(t, 7, insertedItems[0].RentalID)

	require.Equal(t, 1, db.begun)
	require.True(t, db.tx.committed)
	require.False(t, db.tx.rolledBack)
}

func TestCreate_Validation(t *testing.T) {
	db := &fakeDB{}
	svc := New(db, &repoMock{}, &catalogMock{})

	_, err := svc.Create(context.Background(), 1, CreateReq{
		RentalDate: date("2025-01-01"),
		ReturnDate: date("2025-01-03"),
	})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), 1, CreateReq{
		RentalDate: date("2025-01-03"),
		ReturnDate: date("2025-01-01"),
		Items:      []CreateItem{{ClothingItemID: 1, Quantity: 1}},
	})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), 1, CreateReq{
		RentalDate: date("2025-01-01"),
		ReturnDate: date("2025-01-03"),
		Items:      []CreateItem{{ClothingItemID: 1, Quantity: 0}},
	})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	require.Equal(t, 0, db.begun, "validation failures must not open a transaction")
}

func TestCreate_UnknownItem(t *testing.T) {
	db := &fakeDB{}
	svc := New(db, &repoMock{}, &catalogMock{prices: map[int64]decimal.Decimal{}})

	_, err := svc.Create(context.Background(), 1, CreateReq{
		RentalDate: date("2025-01-01"),
		ReturnDate: date("2025-01-03"),
		Items:      []CreateItem{{ClothingItemID: 99, Quantity: 1}},
	})
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.True(t, db.tx.rolledBack)
}

func TestMyRentals_AttachesItems(t *testing.T) {
	m := &repoMock{
		listByUserFn: func(ctx context.Context, userID int64) ([]model.Rental, error) {
			return []model.Rental{{ID: 2}, {ID: 1}}, nil
		},
		listItemsByUserFn: func(ctx context.Context, userID int64) (map[int64][]model.RentalItem, error) {
			return map[int64][]model.RentalItem{
				1: {{ID: 10, RentalID: 1}},
				2: {{ID: 20, RentalID: 2}, {ID: 21, RentalID: 2}},
			}, nil
		},
	}
	svc := New(&fakeDB{}, m, &catalogMock{})

	out, err := svc.MyRentals(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.EqualValues(t, 2, out[0].ID)
	require.Len(t, out[0].Items, 2)
	require.Len(t, out[1].Items, 1)
}

func TestEnsurePaymentReference_Idempotent(t *testing.T) {
	var persisted []string
	m := &repoMock{
		setPaymentRefFn: func(ctx context.Context, tx database.Tx, id int64, ref string) error {
			persisted = append(persisted, ref)
			return nil
		},
	}
	rental := &model.Rental{ID: 12}

	first, err := EnsurePaymentReference(context.Background(), &fakeTx{}, m, rental)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first, "PAY-"))
	require.True(t, strings.HasSuffix(first, "-12"))
	require.Len(t, persisted, 1)

	second, err := EnsurePaymentReference(context.Background(), &fakeTx{}, m, rental)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, persisted, 1, "reference must be persisted exactly once")
}

func TestEnsurePaymentReference_UniqueAcrossRentals(t *testing.T) {
	m := &repoMock{
		setPaymentRefFn: func(ctx context.Context, tx database.Tx, id int64, ref string) error {
			return nil
		},
	}
	seen := map[string]bool{}
	for i := int64(1); i <= 100; i++ {
		ref, err := EnsurePaymentReference(context.Background(), &fakeTx{}, m, &model.Rental{ID: i})
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
