package loan

type ApplyInput struct {
	Principal    float64 `json:"principal"`
	TenureMonths int     `json:"tenure_months"`
	Category     string  `json:"category"`
	Purpose      string  `json:"purpose"`
}

// UpdateStatusInput carries an administrative status transition. Optional
// fields are pointers so "absent" and "zero" stay distinguishable; an
// explicit InterestRate always beats category lookup.
type UpdateStatusInput struct {
	Status       string   `json:"status"`
	AdminNote    *string  `json:"admin_note,omitempty"`
	Category     *string  `json:"category,omitempty"`
	InterestRate *float64 `json:"interest_rate,omitempty"`
}

type ScheduleEntryDTO struct {
	Month     int     `json:"month"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// ScheduleDTO is derived on every request and never persisted.
type ScheduleDTO struct {
	LoanID             string             `json:"loan_id"`
	AnnualRatePercent  float64            `json:"annual_rate_percent"`
	MonthlyInstallment float64            `json:"monthly_installment"`
	TotalInterest      float64            `json:"total_interest"`
	Schedule           []ScheduleEntryDTO `json:"schedule"`
}
