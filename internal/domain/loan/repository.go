package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
	// ListAll returns every loan, optionally filtered by status when the
	// filter is non-empty; newest first.
	ListAll(ctx context.Context, status Status) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
