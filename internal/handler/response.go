package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devbada/hogumeter-sub001/internal/meter"
	"github.com/devbada/hogumeter-sub001/internal/repository"
	"github.com/devbada/hogumeter-sub001/internal/service"
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
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoActiveTrip):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidDeviceID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidFix),
		errors.Is(err, service.ErrInvalidPromptAction),
		errors.Is(err, service.ErrInvalidRegionCode),
		errors.Is(err, service.ErrInvalidTariff),
		errors.Is(err, service.ErrInvalidPage):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrTripAlreadyActive),
		errors.Is(err, service.ErrTripNotReset),
		errors.Is(err, service.ErrTripStillRunning),
		errors.Is(err, meter.ErrNoPromptPending):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrHomeRegionProtected):
		return http.StatusForbidden

	// Service unavailable
	case errors.Is(err, meter.ErrNoTariffAvailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
