package http

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func containsFieldMsg(fe []FieldError, field, substr string) bool {
	for _, e := range fe {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{LoanID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",                      // empty
		strings.Repeat("A", 32), // uppercase
		"deadbeef",              // too short
		strings.Repeat("g", 32), // non-hex char
		strings.Repeat("a", 33), // too long
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "LoanID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestFiniteValidation(t *testing.T) {
	type P struct {
		Amount float64 `validate:"finite"`
	}
	cv := NewValidator()

	for _, v := range []float64{0, -12.5, 100000, 1e15} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected finite OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected finite error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Amount", "finite number") {
			t.Fatalf("expected finite message for %v, got %+v", v, ToFieldErrors(err))
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Principal float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{100000, 1234.56, 0.9, 1.2} {
		if err := cv.Validate(P{Principal: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Principal: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Principal", "at most 2 decimal places") {
			t.Fatalf("expected dec2 message for %v, got %+v", v, ToFieldErrors(err))
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string  `validate:"required"`
		Min  int     `validate:"gte=10"`
		Max  int     `validate:"lte=5"`
		Rate float64 `validate:"gt=0"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Min: 9, Max: 6, Rate: 0})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	if !containsFieldMsg(fe, "Rate", "greater than 0") {
		t.Fatalf("missing gt message for Rate: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
