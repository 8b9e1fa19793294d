package ratemock

import (
	"context"

	domain "loanserve/internal/domain/rate"

	"gorm.io/gorm"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByKeyFn    func(ctx context.Context, key string) (*domain.InterestRateCategory, error)
	UpsertFn      func(ctx context.Context, c *domain.InterestRateCategory) error
	DeleteByKeyFn func(ctx context.Context, key string) error
	ListFn        func(ctx context.Context) ([]domain.InterestRateCategory, error)
}

func (m *Repo) GetByKey(ctx context.Context, key string) (*domain.InterestRateCategory, error) {
	if m.GetByKeyFn != nil {
		return m.GetByKeyFn(ctx, key)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Upsert(ctx context.Context, c *domain.InterestRateCategory) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, c)
	}
	return nil
}

func (m *Repo) DeleteByKey(ctx context.Context, key string) error {
	if m.DeleteByKeyFn != nil {
		return m.DeleteByKeyFn(ctx, key)
	}
	return nil
}

func (m *Repo) List(ctx context.Context) ([]domain.InterestRateCategory, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

// Table builds a GetByKey-only repo from a fixed category → rate map, which
// is what most resolver tests want.
func Table(rates map[string]float64) *Repo {
	return &Repo{
		GetByKeyFn: func(_ context.Context, key string) (*domain.InterestRateCategory, error) {
			r, ok := rates[key]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			return &domain.InterestRateCategory{Category: key, AnnualRatePercent: r}, nil
		},
	}
}
