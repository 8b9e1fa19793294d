package rate

import (
	"context"
	"errors"
	"testing"

	domain "loanserve/internal/domain/rate"
	"loanserve/internal/testutil/ratemock"
)

func f(v float64) *float64 { return &v }

func TestResolve_ExplicitRateWins(t *testing.T) {
	uc := NewUsecase(ratemock.Table(map[string]float64{"personal": 10}), 8.5)

	got, err := uc.Resolve(context.Background(), f(15), "personal")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 15 {
		t.Fatalf("rate = %v, want explicit 15", got)
	}
}

func TestResolve_CategoryLookup(t *testing.T) {
	uc := NewUsecase(ratemock.Table(map[string]float64{"personal": 10}), 8.5)

	got, err := uc.Resolve(context.Background(), nil, "personal")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 10 {
		t.Fatalf("rate = %v, want 10", got)
	}
}

func TestResolve_NormalizesCategoryKey(t *testing.T) {
	repo := ratemock.Table(map[string]float64{"personal": 10})
	uc := NewUsecase(repo, 8.5)

	got, err := uc.Resolve(context.Background(), nil, "  Personal ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 10 {
		t.Fatalf("rate = %v, want 10 via normalized key", got)
	}
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	uc := NewUsecase(ratemock.Table(nil), 8.5)

	for _, category := range []string{"", "unknown"} {
		got, err := uc.Resolve(context.Background(), nil, category)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", category, err)
		}
		if got != 8.5 {
			t.Fatalf("Resolve(%q) = %v, want default 8.5", category, got)
		}
	}
}

func TestResolve_RepoErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(&ratemock.Repo{
		GetByKeyFn: func(context.Context, string) (*domain.InterestRateCategory, error) {
			return nil, boom
		},
	}, 8.5)

	if _, err := uc.Resolve(context.Background(), nil, "personal"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want db error", err)
	}
}

func TestUpsert_Validation(t *testing.T) {
	uc := NewUsecase(&ratemock.Repo{}, 8.5)
	ctx := context.Background()

	if _, err := uc.Upsert(ctx, "   ", 10); !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("empty key err = %v", err)
	}
	if _, err := uc.Upsert(ctx, "personal", -1); !errors.Is(err, domain.ErrInvalidRate) {
		t.Fatalf("negative rate err = %v", err)
	}
	if _, err := uc.Upsert(ctx, "personal", 100.01); !errors.Is(err, domain.ErrInvalidRate) {
		t.Fatalf("oversized rate err = %v", err)
	}
}

func TestUpsert_NormalizesKey(t *testing.T) {
	var saved *domain.InterestRateCategory
	uc := NewUsecase(&ratemock.Repo{
		UpsertFn: func(_ context.Context, c *domain.InterestRateCategory) error {
			saved = c
			return nil
		},
	}, 8.5)

	got, err := uc.Upsert(context.Background(), " Personal ", 10)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved == nil || saved.Category != "personal" || got.Category != "personal" {
		t.Fatalf("key not normalized: %+v", saved)
	}
}

func TestDelete_RequiresKey(t *testing.T) {
	uc := NewUsecase(&ratemock.Repo{}, 8.5)
	if err := uc.Delete(context.Background(), ""); !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("err = %v", err)
	}
}
