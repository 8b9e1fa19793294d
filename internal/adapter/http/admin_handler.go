package http

import (
	"net/http"

	mw "loanserve/internal/adapter/middleware"
	"loanserve/internal/usecase/loan"
	"loanserve/internal/usecase/rate"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	loans *loan.Usecase
	rates *rate.Usecase
}

func NewAdminHandler(loans *loan.Usecase, rates *rate.Usecase) *AdminHandler {
	return &AdminHandler{loans: loans, rates: rates}
}

type updateStatusReq struct {
	Status       string   `json:"status"        validate:"required"`
	AdminNote    *string  `json:"admin_note"`
	Category     *string  `json:"category"`
	InterestRate *float64 `json:"interest_rate" validate:"omitempty,finite,gte=0,lte=100"`
}

func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationDetails(c, err)
	}
	l, err := h.loans.UpdateStatus(c.Request().Context(), mw.SessionFrom(c), c.Param("loan_id"), loan.UpdateStatusInput{
		Status:       req.Status,
		AdminNote:    req.AdminNote,
		Category:     req.Category,
		InterestRate: req.InterestRate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *AdminHandler) ListLoans(c echo.Context) error {
	out, err := h.loans.ListAll(c.Request().Context(), mw.SessionFrom(c), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type upsertRateReq struct {
	AnnualRatePercent float64 `json:"annual_rate_percent" validate:"finite,gte=0,lte=100"`
}

func (h *AdminHandler) ListRates(c echo.Context) error {
	out, err := h.rates.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) GetRate(c echo.Context) error {
	cat, err := h.rates.Get(c.Request().Context(), c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *AdminHandler) UpsertRate(c echo.Context) error {
	var req upsertRateReq
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationDetails(c, err)
	}
	cat, err := h.rates.Upsert(c.Request().Context(), c.Param("category"), req.AnnualRatePercent)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *AdminHandler) DeleteRate(c echo.Context) error {
	if err := h.rates.Delete(c.Request().Context(), c.Param("category")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
