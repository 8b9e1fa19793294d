package http

import (
	"errors"
	"log"
	"net/http"

	loanDomain "loanserve/internal/domain/loan"
	rateDomain "loanserve/internal/domain/rate"
	"loanserve/pkg/emi"

	"github.com/labstack/echo/v4"
)

// writeError maps domain errors onto the wire taxonomy. Unrecognized errors
// are logged and surfaced generically so internals never leak.
func writeError(c echo.Context, err error) error {
	var ve *emi.ValidationError
	switch {
	case errors.As(err, &ve):
		return apiError(c, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.Is(err, loanDomain.ErrInvalidInput),
		errors.Is(err, loanDomain.ErrInvalidStatus),
		errors.Is(err, rateDomain.ErrInvalidKey),
		errors.Is(err, rateDomain.ErrInvalidRate):
		return apiError(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, loanDomain.ErrNotFound), errors.Is(err, rateDomain.ErrNotFound):
		return apiError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, loanDomain.ErrForbidden):
		return apiError(c, http.StatusForbidden, "forbidden", err.Error())
	default:
		log.Printf("http: internal error: %v", err)
		return apiError(c, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func apiError(c echo.Context, status int, typ, msg string) error {
	return c.JSON(status, APIError{Type: typ, Message: msg, Status: status})
}

func validationDetails(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, APIError{
		Type:    "validation_error",
		Message: "validation failed",
		Status:  http.StatusUnprocessableEntity,
		Details: ToFieldErrors(err),
	})
}
