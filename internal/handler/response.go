package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shademy/internal/repository"
	"shademy/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingCode),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingBookingFields),
		errors.Is(err, service.ErrMissingSessionID),
		errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest

	// Unknown and spent codes share one shape so nothing leaks.
	case errors.Is(err, service.ErrCodeNotFound):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrInvoiceNotAvailable),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Provider/store failures surface as opaque 500s.
	default:
		return http.StatusInternalServerError
	}
}
