package mysql

import (
	"context"
	"errors"

	rateDomain "loanserve/internal/domain/rate"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateRepository struct{ db *gorm.DB }

func NewRateRepository(db *gorm.DB) *RateRepository { return &RateRepository{db: db} }

func (r *RateRepository) GetByKey(ctx context.Context, key string) (*rateDomain.InterestRateCategory, error) {
	var out rateDomain.InterestRateCategory
	res := r.db.WithContext(ctx).Where("category = ?", key).First(&out)
	return &out, res.Error
}

// Upsert inserts the category or updates its rate in place, matching the
// original PUT-by-key semantics.
func (r *RateRepository) Upsert(ctx context.Context, c *rateDomain.InterestRateCategory) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"annual_rate_percent", "updated_at"}),
		}).
		Create(c).Error
}

func (r *RateRepository) DeleteByKey(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("category = ?", key).Delete(&rateDomain.InterestRateCategory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return rateDomain.ErrNotFound
	}
	return nil
}

func (r *RateRepository) List(ctx context.Context) ([]rateDomain.InterestRateCategory, error) {
	var out []rateDomain.InterestRateCategory
	res := r.db.WithContext(ctx).Order("category ASC").Find(&out)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, res.Error
	}
	return out, nil
}
