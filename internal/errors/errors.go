package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrActivityNotFound is returned when an activity does not exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAccessDenied is returned when an activity belongs to another user.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidMetric is returned for an unrecognized insights metric.
	// The enum is validated at the DTO, so reaching this is a server bug.
	ErrInvalidMetric = errors.New("Invalid metric type")
	// ErrInvalidDateRange is returned when start/end cannot be parsed.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return NewHTTPError(http.StatusNotFound, ErrActivityNotFound.Error(), "ACTIVITY_NOT_FOUND")
	case errors.Is(err, ErrAccessDenied):
		return NewHTTPError(http.StatusForbidden, ErrAccessDenied.Error(), "ACCESS_DENIED")
	case errors.Is(err, ErrInvalidDateRange):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidDateRange.Error(), "INVALID_DATE_RANGE")
	case errors.Is(err, ErrInvalidMetric):
		return NewHTTPError(http.StatusInternalServerError, ErrInvalidMetric.Error(), "INVALID_METRIC")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
