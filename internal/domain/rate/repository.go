package rate

import "context"

type Repository interface {
	// GetByKey expects an already-normalized category key.
	GetByKey(ctx context.Context, key string) (*InterestRateCategory, error)
	Upsert(ctx context.Context, c *InterestRateCategory) error
	DeleteByKey(ctx context.Context, key string) error
	List(ctx context.Context) ([]InterestRateCategory, error)
}
