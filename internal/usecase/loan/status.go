package loan

import (
	"context"
	"log"
	"math"
	"time"

	"loanserve/internal/domain/auth"
	domain "loanserve/internal/domain/loan"
	"loanserve/internal/domain/notify"
	domainRate "loanserve/internal/domain/rate"
)

const publishTimeout = 2 * time.Second

// UpdateStatus applies an administrative status transition.
//
// The requested status, note and category are applied unconditionally for
// any known status value; the state machine treats approved/rejected as
// terminal by convention only, so re-approval is accepted. The interest rate
// is resolved exactly once: an explicit rate on the request always wins, and
// category lookup runs only on the first move into approved while no rate is
// set. Writes race last-write-wins; there is no version guard.
func (u *Usecase) UpdateStatus(ctx context.Context, sess auth.Session, loanID string, in UpdateStatusInput) (*domain.Loan, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	next := domain.Status(in.Status)
	if !next.Known() {
		return nil, domain.ErrInvalidStatus
	}
	if in.InterestRate != nil {
		r := *in.InterestRate
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > 100 {
			return nil, domainRate.ErrInvalidRate
		}
	}

	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	prev := l.Status
	l.Status = next
	if in.AdminNote != nil {
		l.AdminNote = *in.AdminNote
	}
	if in.Category != nil {
		// Admins may retag at any time, not just on approval.
		l.Category = domainRate.NormalizeKey(*in.Category)
	}

	switch {
	case in.InterestRate != nil:
		l.InterestRate = in.InterestRate
	case next == domain.StatusApproved && prev != domain.StatusApproved && l.InterestRate == nil:
		resolved, err := u.rates.Resolve(ctx, nil, l.Category)
		if err != nil {
			return nil, err
		}
		l.InterestRate = &resolved
	}

	l.UpdatedAt = time.Now().UTC()
	if err := u.repo.Save(ctx, l); err != nil {
		return nil, err
	}

	u.publishStatusChange(ctx, l)
	return l, nil
}

// publishStatusChange is fire-and-forget: a broker outage must never fail
// the status update. Offline sessions miss the event and refetch on
// reconnect; the persisted loan stays authoritative.
func (u *Usecase) publishStatusChange(ctx context.Context, l *domain.Loan) {
	if u.notifier == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := notify.Event{
		LoanID:    l.LoanID,
		UserID:    l.UserID,
		Status:    string(l.Status),
		AdminNote: l.AdminNote,
		UpdatedAt: l.UpdatedAt,
	}
	if err := u.notifier.PublishStatusChange(pctx, ev); err != nil {
		log.Printf("notify: status change for loan %s dropped: %v", l.LoanID, err)
	}
}
