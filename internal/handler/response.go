package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental/internal/repository"
	"rental/internal/service"
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

// queryInt parses a query parameter as an integer, returning 0 when absent
// or malformed.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCarID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidCarName),
		errors.Is(err, service.ErrInvalidPricePerDay),
		errors.Is(err, service.ErrInvalidTransmission),
		errors.Is(err, service.ErrInvalidSort),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidCustomerInfo),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidFuelLevel),
		errors.Is(err, service.ErrInvalidInspectionLocation):
		return http.StatusBadRequest

	// Authentication/authorization errors
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrNotBookingOwner):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrBookingAlreadyCancelled),
		errors.Is(err, service.ErrCarUnavailable),
		errors.Is(err, service.ErrCarHasActiveBookings),
		errors.Is(err, service.ErrBookingNotPayable),
		errors.Is(err, service.ErrOverpayment),
		errors.Is(err, service.ErrPaymentAlreadyVerified),
		errors.Is(err, service.ErrPaymentRequired),
		errors.Is(err, service.ErrPickupAlreadyRecorded),
		errors.Is(err, service.ErrPickupNotRecorded),
		errors.Is(err, service.ErrReturnAlreadyRecorded),
		errors.Is(err, service.ErrBookingLocked):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
