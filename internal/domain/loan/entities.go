package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// Known reports whether s is one of the defined statuses. Transitions between
// known statuses are applied unconditionally (last write wins); approved and
// rejected are terminal only by convention.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

var (
	ErrNotFound      = errors.New("loan not found")
	ErrForbidden     = errors.New("not authorized")
	ErrInvalidStatus = errors.New("unknown loan status")
	ErrInvalidInput  = errors.New("invalid loan input")
)

type Loan struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	// Owner reference; loans are created by their owner and mutated only by
	// administrators afterwards.
	UserID       string  `gorm:"size:32;index:idx_loans_user_active" json:"user_id"`
	Principal    float64 `gorm:"type:decimal(18,2)" json:"principal"`
	TenureMonths int     `gorm:"column:tenure_months" json:"tenure_months"`
	// Normalized lowercase category key; weak reference into the rate table.
	Category string `gorm:"size:64" json:"category,omitempty"`
	// Set once on first approval unless explicitly overridden later. Never
	// silently overwritten by category lookup once non-nil.
	InterestRate *float64       `gorm:"type:decimal(6,3)" json:"interest_rate,omitempty"`
	Status       Status         `gorm:"type:enum('pending','under_review','approved','rejected');default:'pending'" json:"status"`
	AdminNote    string         `gorm:"type:text" json:"admin_note,omitempty"`
	Purpose      string         `gorm:"type:text" json:"purpose,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy    string         `gorm:"size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }
