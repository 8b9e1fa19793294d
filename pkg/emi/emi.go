package emi

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Entry is one month of an amortization schedule. Amounts are kept as
// decimals so callers can assert exact sums; convert at the serialization
// boundary only.
type Entry struct {
	Month     int
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal
}

type Result struct {
	MonthlyInstallment decimal.Decimal
	TotalInterest      decimal.Decimal
	Entries            []Entry
}

// ValidationError marks bad calculator input; it maps to a 4xx upstream.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var hundred = decimal.NewFromInt(100)

// round2 rounds half up to the currency's smallest unit. All amounts here
// are non-negative, so decimal's half-away-from-zero is half-up.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Installment returns the monthly payment for principal P over months N at
// annualRatePercent A, rounded to cents: P·r·(1+r)^N / ((1+r)^N − 1) with
// r = A/12/100, or P/N when A is zero.
func Installment(principal, annualRatePercent float64, months int) (decimal.Decimal, error) {
	if err := validate(principal, annualRatePercent, months); err != nil {
		return decimal.Zero, err
	}
	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(months))
	r := monthlyRate(annualRatePercent)

	if r.IsZero() {
		return round2(p.Div(n)), nil
	}

	// (1+r)^N is exact: integer exponent, repeated multiplication.
	pow := decimal.NewFromInt(1).Add(r).Pow(n)
	return round2(p.Mul(r).Mul(pow).Div(pow.Sub(decimal.NewFromInt(1)))), nil
}

// Compute produces the full schedule. The final month's principal component
// is forced to the remaining balance so cumulative rounding drift cannot
// leave a residual; the sum of principal components always equals P and the
// final balance is exactly zero.
//
// Compute is pure. The server schedule endpoint and the client fallback both
// call it, which is what keeps the two paths bit-for-bit consistent.
func Compute(principal, annualRatePercent float64, months int) (*Result, error) {
	installment, err := Installment(principal, annualRatePercent, months)
	if err != nil {
		return nil, err
	}
	r := monthlyRate(annualRatePercent)

	balance := round2(decimal.NewFromFloat(principal))
	totalInterest := decimal.Zero
	entries := make([]Entry, 0, months)

	for month := 1; month <= months; month++ {
		interest := round2(balance.Mul(r))
		paid := installment.Sub(interest)
		if month == months {
			paid = balance
		}
		balance = balance.Sub(paid)
		entries = append(entries, Entry{
			Month:     month,
			Principal: paid,
			Interest:  interest,
			Balance:   balance,
		})
		totalInterest = totalInterest.Add(interest)
	}

	return &Result{
		MonthlyInstallment: installment,
		TotalInterest:      totalInterest,
		Entries:            entries,
	}, nil
}

func monthlyRate(annualRatePercent float64) decimal.Decimal {
	return decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(12)).Div(hundred)
}

func validate(principal, annualRatePercent float64, months int) error {
	if math.IsNaN(principal) || math.IsInf(principal, 0) || principal <= 0 {
		return &ValidationError{Field: "principal", Reason: "must be a positive finite number"}
	}
	if months <= 0 {
		return &ValidationError{Field: "tenure_months", Reason: "must be a positive integer"}
	}
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return &ValidationError{Field: "annual_rate_percent", Reason: "must be a non-negative finite number"}
	}
	return nil
}
