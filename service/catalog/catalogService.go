package catalogsvc

import (
	"context"
	"database/sql"
	"errors"

	"clothingrental/apperr"
	"clothingrental/model"
	catalogrepo "clothingrental/repository/catalog"
)

type Filter = catalogrepo.Filter

type Repo interface {
	Create(ctx context.Context, it *model.ClothingItem) (int64, error)
	Get(ctx context.Context, id int64) (*model.ClothingItem, error)
	List(ctx context.Context, f Filter) ([]model.ClothingItem, error)
	Update(ctx context.Context, it *model.ClothingItem) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	Create(ctx context.Context, it *model.ClothingItem) (*model.ClothingItem, error)
	Detail(ctx context.Context, id int64) (*model.ClothingItem, error)
	List(ctx context.Context, f Filter) ([]model.ClothingItem, error)
	Update(ctx context.Context, it *model.ClothingItem) (*model.ClothingItem, error)
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r} }

func (s *service) Create(ctx context.Context, it *model.ClothingItem) (*model.ClothingItem, error) {
	if err := validate(it); err != nil {
		return nil, err
	}
	if it.Status == "" {
		it.Status = model.ItemAvailable
	}
	if it.Condition == "" {
		it.Condition = "good"
	}
	if _, err := s.r.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.ClothingItem, error) {
	it, err := s.r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "clothing item not found")
		}
		return nil, err
	}
	return it, nil
}

func (s *service) List(ctx context.Context, f Filter) ([]model.ClothingItem, error) {
	return s.r.List(ctx, f)
}

func (s *service) Update(ctx context.Context, it *model.ClothingItem) (*model.ClothingItem, error) {
	if err := validate(it); err != nil {
		return nil, err
	}
	if err := s.r.Update(ctx, it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "clothing item not found")
		}
		return nil, err
	}
	return it, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.New(apperr.NotFound, "clothing item not found")
		}
		return err
	}
	return nil
}

func validate(it *model.ClothingItem) error {
	if it.Name == "" {
		return apperr.New(apperr.Validation, "name is required").WithField("name", "required")
	}
	if it.PricePerDay.IsNegative() {
		return apperr.New(apperr.Validation, "price per day must not be negative").
			WithField("price_per_day", "must be >= 0")
	}
	if it.DepositAmount.IsNegative() {
		return apperr.New(apperr.Validation, "deposit amount must not be negative").
			WithField("deposit_amount", "must be >= 0")
	}
	return nil
}
