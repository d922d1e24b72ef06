package catalogsvc

import (
	"context"
	"database/sql"
	"testing"

	"clothingrental/apperr"
	"clothingrental/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	createFn func(ctx context.Context, it *model.ClothingItem) (int64, error)
	getFn    func(ctx context.Context, id int64) (*model.ClothingItem, error)
	listFn   func(ctx context.Context, f Filter) ([]model.ClothingItem, error)
	updateFn func(ctx context.Context, it *model.ClothingItem) error
	deleteFn func(ctx context.Context, id int64) error
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, it *model.ClothingItem) (int64, error) {
	return m.createFn(ctx, it)
}
func (m *repoMock) Get(ctx context.Context, id int64) (*model.ClothingItem, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context, f Filter) ([]model.ClothingItem, error) {
	return m.listFn(ctx, f)
}
func (m *repoMock) Update(ctx context.Context, it *model.ClothingItem) error {
	return m.updateFn(ctx, it)
}
func (m *repoMock) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }

func TestCreate_Defaults(t *testing.T) {
	var saved *model.ClothingItem
	svc := New(&repoMock{
		createFn: func(ctx context.Context, it *model.ClothingItem) (int64, error) {
			it.ID = 7
			saved = it
			return 7, nil
		},
	})

	it, err := svc.Create(context.Background(), &model.ClothingItem{
		Name:        "Silk Evening Dress",
		Size:        "M",
		PricePerDay: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, it.ID)
	require.Equal(t, model.ItemAvailable, saved.Status)
	require.Equal(t, "good", saved.Condition)
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&repoMock{})

	_, err := svc.Create(context.Background(), &model.ClothingItem{})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.Contains(t, apperr.FieldsOf(err), "name")

	_, err = svc.Create(context.Background(), &model.ClothingItem{
		Name:        "Blazer",
		PricePerDay: decimal.RequireFromString("-1"),
	})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.Contains(t, apperr.FieldsOf(err), "price_per_day")

	_, err = svc.Create(context.Background(), &model.ClothingItem{
		Name:          "Blazer",
		DepositAmount: decimal.RequireFromString("-50"),
	})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.Contains(t, apperr.FieldsOf(err), "deposit_amount")
}

func TestDetail_NotFound(t *testing.T) {
	svc := New(&repoMock{
		getFn: func(ctx context.Context, id int64) (*model.ClothingItem, error) {
			return nil, sql.ErrNoRows
		},
	})

	_, err := svc.Detail(context.Background(), 99)
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestList_PassesFilter(t *testing.T) {
	var got Filter
	svc := New(&repoMock{
		listFn: func(ctx context.Context, f Filter) ([]model.ClothingItem, error) {
			got = f
			return []model.ClothingItem{{ID: 1}}, nil
		},
	})

	size := "M"
	items, err := svc.List(context.Background(), Filter{Size: &size, Limit: 10, Offset: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "M", *got.Size)
	require.Equal(t, 10, got.Offset)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(&repoMock{
		updateFn: func(ctx context.Context, it *model.ClothingItem) error { return sql.ErrNoRows },
	})

	_, err := svc.Update(context.Background(), &model.ClothingItem{ID: 99, Name: "Coat"})
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDelete(t *testing.T) {
	var deleted int64
	svc := New(&repoMock{
		deleteFn: func(ctx context.Context, id int64) error { deleted = id; return nil },
	})

	require.NoError(t, svc.Delete(context.Background(), 5))
	require.EqualValues(t, 5, deleted)

	svc = New(&repoMock{
		deleteFn: func(ctx context.Context, id int64) error { return sql.ErrNoRows },
	})
	err := svc.Delete(context.Background(), 5)
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
