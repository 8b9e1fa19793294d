package http

import (
	"net/http"

	mw "loanserve/internal/adapter/middleware"
	"loanserve/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	Principal    float64 `json:"principal"     validate:"required,finite,gt=0,dec2"`
	TenureMonths int     `json:"tenure_months" validate:"required,gt=0"`
	Category     string  `json:"category"`
	Purpose      string  `json:"purpose"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationDetails(c, err)
	}
	l, err := h.uc.Apply(c.Request().Context(), mw.SessionFrom(c), loan.ApplyInput{
		Principal:    req.Principal,
		TenureMonths: req.TenureMonths,
		Category:     req.Category,
		Purpose:      req.Purpose,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) ListMine(c echo.Context) error {
	out, err := h.uc.ListMine(c.Request().Context(), mw.SessionFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), mw.SessionFrom(c), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Schedule returns the freshly computed installment breakdown; nothing is
// persisted.
func (h *LoanHandler) Schedule(c echo.Context) error {
	dto, err := h.uc.Schedule(c.Request().Context(), mw.SessionFrom(c), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
