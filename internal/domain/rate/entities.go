package rate

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("interest rate category not found")
	ErrInvalidKey  = errors.New("category key is required")
	ErrInvalidRate = errors.New("annual rate percent must be between 0 and 100")
)

// InterestRateCategory maps a loan category label to a default annual rate.
// Loans hold only the category key; deleting a category never touches loans
// that already resolved a rate.
type InterestRateCategory struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"-"`
	Category          string    `gorm:"size:64;uniqueIndex:ux_rate_categories_key" json:"category"`
	AnnualRatePercent float64   `gorm:"type:decimal(6,3)" json:"annual_rate_percent"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InterestRateCategory) TableName() string { return "interest_rate_categories" }

// NormalizeKey trims and lowercases a category label; the empty string means
// "no category".
func NormalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
