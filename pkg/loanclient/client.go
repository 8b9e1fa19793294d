// Package loanclient is a small API client for the loan service. It keeps a
// snapshot of each loan it has fetched so that schedules can still be
// computed locally when the service is unreachable.
package loanclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"loanserve/pkg/emi"
)

// Loan is the client-side view of a loan, trimmed to what schedule
// computation needs.
type Loan struct {
	LoanID       string   `json:"loan_id"`
	UserID       string   `json:"user_id"`
	Principal    float64  `json:"principal"`
	TenureMonths int      `json:"tenure_months"`
	Category     string   `json:"category,omitempty"`
	InterestRate *float64 `json:"interest_rate,omitempty"`
	Status       string   `json:"status"`
}

type ScheduleEntry struct {
	Month     int     `json:"month"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Schedule is an installment breakdown. Estimated is true when it was
// computed locally from a cached snapshot instead of fetched from the
// service; the numbers themselves are identical either way because both
// sides share the same calculator.
type Schedule struct {
	LoanID             string          `json:"loan_id"`
	AnnualRatePercent  float64         `json:"annual_rate_percent"`
	MonthlyInstallment float64         `json:"monthly_installment"`
	TotalInterest      float64         `json:"total_interest"`
	Schedule           []ScheduleEntry `json:"schedule"`
	Estimated          bool            `json:"-"`
}

// APIError is a non-2xx response from the service. It never triggers the
// local fallback; only transport failures do.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Type, e.Message)
}

// ErrNoSnapshot is returned when the service is unreachable and no cached
// loan exists to compute from.
type ErrNoSnapshot struct{ LoanID string }

func (e *ErrNoSnapshot) Error() string {
	return "no cached snapshot for loan " + e.LoanID
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client

	// Used for loans with no resolved rate, mirroring the server default.
	defaultAnnualRate float64

	mu    sync.RWMutex
	loans map[string]Loan
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// WithDefaultAnnualRate sets the rate used for fallback computation on loans
// without a resolved rate. Keep it aligned with the service configuration.
func WithDefaultAnnualRate(r float64) Option { return func(c *Client) { c.defaultAnnualRate = r } }

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:           baseURL,
		token:             token,
		httpc:             &http.Client{Timeout: 10 * time.Second},
		defaultAnnualRate: 8.5,
		loans:             map[string]Loan{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Type: "server_error", Message: resp.Status}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Loan fetches a loan and caches the snapshot for offline schedule
// computation.
func (c *Client) Loan(ctx context.Context, loanID string) (*Loan, error) {
	var l Loan
	if err := c.get(ctx, "/loans/"+url.PathEscape(loanID), &l); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.loans[l.LoanID] = l
	c.mu.Unlock()
	return &l, nil
}

// Snapshot returns the cached loan, if any.
func (c *Client) Snapshot(loanID string) (Loan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.loans[loanID]
	return l, ok
}

// Schedule fetches the installment breakdown from the service. When the
// service is unreachable it computes the same breakdown locally from the
// cached snapshot and marks the result Estimated. HTTP error responses are
// returned as *APIError and never fall back: the service rejected the
// request, it was not unreachable.
func (c *Client) Schedule(ctx context.Context, loanID string) (*Schedule, error) {
	var s Schedule
	err := c.get(ctx, "/loans/"+url.PathEscape(loanID)+"/schedule", &s)
	if err == nil {
		return &s, nil
	}
	if _, ok := err.(*APIError); ok {
		return nil, err
	}

	l, ok := c.Snapshot(loanID)
	if !ok {
		return nil, &ErrNoSnapshot{LoanID: loanID}
	}
	local, lerr := c.localSchedule(l)
	if lerr != nil {
		return nil, lerr
	}
	return local, nil
}

func (c *Client) localSchedule(l Loan) (*Schedule, error) {
	rate := c.defaultAnnualRate
	if l.InterestRate != nil {
		rate = *l.InterestRate
	}
	res, err := emi.Compute(l.Principal, rate, l.TenureMonths)
	if err != nil {
		return nil, err
	}

	out := &Schedule{
		LoanID:             l.LoanID,
		AnnualRatePercent:  rate,
		MonthlyInstallment: res.MonthlyInstallment.InexactFloat64(),
		TotalInterest:      res.TotalInterest.InexactFloat64(),
		Schedule:           make([]ScheduleEntry, 0, len(res.Entries)),
		Estimated:          true,
	}
	for _, e := range res.Entries {
		out.Schedule = append(out.Schedule, ScheduleEntry{
			Month:     e.Month,
			Principal: e.Principal.InexactFloat64(),
			Interest:  e.Interest.InexactFloat64(),
			Balance:   e.Balance.InexactFloat64(),
		})
	}
	return out, nil
}
