package loan

import (
	"context"
	"math"

	"loanserve/internal/domain/auth"
	domain "loanserve/internal/domain/loan"
	"loanserve/internal/domain/notify"
	domainRate "loanserve/internal/domain/rate"
	"loanserve/internal/usecase/rate"
	"loanserve/pkg/emi"
	"loanserve/pkg/id"
)

type Usecase struct {
	repo     domain.Repository
	rates    *rate.Usecase
	notifier notify.Notifier
}

func NewUsecase(r domain.Repository, rates *rate.Usecase, n notify.Notifier) *Usecase {
	return &Usecase{repo: r, rates: rates, notifier: n}
}

// Apply creates a loan in pending state, owned by the session's user.
func (u *Usecase) Apply(ctx context.Context, sess auth.Session, in ApplyInput) (*domain.Loan, error) {
	if sess.UserID == "" {
		return nil, domain.ErrForbidden
	}
	if math.IsNaN(in.Principal) || math.IsInf(in.Principal, 0) || in.Principal <= 0 || in.TenureMonths <= 0 {
		return nil, domain.ErrInvalidInput
	}

	l := &domain.Loan{
		LoanID:       id.NewID32(),
		UserID:       sess.UserID,
		Principal:    in.Principal,
		TenureMonths: in.TenureMonths,
		Category:     domainRate.NormalizeKey(in.Category),
		Purpose:      in.Purpose,
		Status:       domain.StatusPending,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns a loan to its owner or to an administrator.
func (u *Usecase) Get(ctx context.Context, sess auth.Session, loanID string) (*domain.Loan, error) {
	if !id.Valid(loanID) {
		return nil, domain.ErrNotFound
	}
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if !sess.IsAdmin() && l.UserID != sess.UserID {
		return nil, domain.ErrForbidden
	}
	return l, nil
}

func (u *Usecase) ListMine(ctx context.Context, sess auth.Session) ([]domain.Loan, error) {
	return u.repo.ListByUserID(ctx, sess.UserID)
}

// ListAll is the administrator listing, optionally filtered by status.
func (u *Usecase) ListAll(ctx context.Context, sess auth.Session, status string) ([]domain.Loan, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	filter := domain.Status(status)
	if status != "" && !filter.Known() {
		return nil, domain.ErrInvalidStatus
	}
	return u.repo.ListAll(ctx, filter)
}

// Schedule computes the installment breakdown on demand. It uses the loan's
// resolved rate when present, else the configured default; entries are
// derived fresh and discarded after the response. Calculator errors are
// propagated untouched so the transport layer decides the response.
func (u *Usecase) Schedule(ctx context.Context, sess auth.Session, loanID string) (*ScheduleDTO, error) {
	l, err := u.Get(ctx, sess, loanID)
	if err != nil {
		return nil, err
	}

	annualRate := u.rates.DefaultAnnualRate()
	if l.InterestRate != nil {
		annualRate = *l.InterestRate
	}

	res, err := emi.Compute(l.Principal, annualRate, l.TenureMonths)
	if err != nil {
		return nil, err
	}
	return scheduleDTO(l.LoanID, annualRate, res), nil
}

func scheduleDTO(loanID string, annualRate float64, res *emi.Result) *ScheduleDTO {
	out := &ScheduleDTO{
		LoanID:             loanID,
		AnnualRatePercent:  annualRate,
		MonthlyInstallment: res.MonthlyInstallment.InexactFloat64(),
		TotalInterest:      res.TotalInterest.InexactFloat64(),
		Schedule:           make([]ScheduleEntryDTO, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		out.Schedule = append(out.Schedule, ScheduleEntryDTO{
			Month:     e.Month,
			Principal: e.Principal.InexactFloat64(),
			Interest:  e.Interest.InexactFloat64(),
			Balance:   e.Balance.InexactFloat64(),
		})
	}
	return out
}
