package rate

import (
	"context"
	"errors"
	"math"

	domain "loanserve/internal/domain/rate"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domain.Repository
	// Default annual rate when neither an explicit rate nor a matching
	// category exists.
	defaultAnnualRate float64
}

func NewUsecase(r domain.Repository, defaultAnnualRate float64) *Usecase {
	return &Usecase{repo: r, defaultAnnualRate: defaultAnnualRate}
}

// Resolve applies the fallback chain: explicit request rate, then the stored
// category rate, then the configured default. The category table is read on
// every call so edits take effect immediately; nothing is cached.
func (u *Usecase) Resolve(ctx context.Context, explicit *float64, category string) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if key := domain.NormalizeKey(category); key != "" {
		c, err := u.repo.GetByKey(ctx, key)
		switch {
		case err == nil:
			return c.AnnualRatePercent, nil
		case !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, domain.ErrNotFound):
			return 0, err
		}
	}
	return u.defaultAnnualRate, nil
}

// DefaultAnnualRate exposes the configured fallback for callers that need to
// compute without a resolved rate (e.g. schedules for unapproved loans).
func (u *Usecase) DefaultAnnualRate() float64 { return u.defaultAnnualRate }

func (u *Usecase) Upsert(ctx context.Context, category string, annualRatePercent float64) (*domain.InterestRateCategory, error) {
	key := domain.NormalizeKey(category)
	if key == "" {
		return nil, domain.ErrInvalidKey
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) ||
		annualRatePercent < 0 || annualRatePercent > 100 {
		return nil, domain.ErrInvalidRate
	}
	c := &domain.InterestRateCategory{Category: key, AnnualRatePercent: annualRatePercent}
	if err := u.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) Delete(ctx context.Context, category string) error {
	key := domain.NormalizeKey(category)
	if key == "" {
		return domain.ErrInvalidKey
	}
	return u.repo.DeleteByKey(ctx, key)
}

func (u *Usecase) Get(ctx context.Context, category string) (*domain.InterestRateCategory, error) {
	key := domain.NormalizeKey(category)
	if key == "" {
		return nil, domain.ErrInvalidKey
	}
	c, err := u.repo.GetByKey(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (u *Usecase) List(ctx context.Context) ([]domain.InterestRateCategory, error) {
	return u.repo.List(ctx)
}
