package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrContentNotFound is returned when a content item is not found.
	ErrContentNotFound = errors.New("content not found")
	// ErrIdeaNotFound is returned when an idea is not found.
	ErrIdeaNotFound = errors.New("idea not found")
	// ErrLoginLogNotFound is returned when a login log entry is not found.
	ErrLoginLogNotFound = errors.New("login log not found")
	// ErrDeviceDenied is returned when a login comes from a denied device.
	ErrDeviceDenied = errors.New("access denied for this device, please contact admin")
	// ErrDeviceQuotaExceeded is returned when a user already has the maximum
	// number of approved devices.
	ErrDeviceQuotaExceeded = errors.New("maximum of 2 approved devices reached")
	// ErrInvalidStatus is returned when a login log decision is neither
	// approved nor denied.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrInvalidContentType is returned when a content type is outside the
	// known set.
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrMediaUpload is returned when the media host rejects or fails an upload.
	ErrMediaUpload = errors.New("media upload failed")
	// ErrEmailDelivery is returned when the mail service fails to send.
	ErrEmailDelivery = errors.New("email delivery failed")
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
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrContentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CONTENT_NOT_FOUND")
	case errors.Is(err, ErrIdeaNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "IDEA_NOT_FOUND")
	case errors.Is(err, ErrLoginLogNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LOGIN_LOG_NOT_FOUND")
	case errors.Is(err, ErrDeviceDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "DEVICE_DENIED")
	case errors.Is(err, ErrDeviceQuotaExceeded):
		return NewHTTPError(http.StatusForbidden, err.Error(), "DEVICE_QUOTA_EXCEEDED")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrInvalidContentType):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CONTENT_TYPE")
	case errors.Is(err, ErrMediaUpload):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "MEDIA_UPLOAD_FAILED")
	case errors.Is(err, ErrEmailDelivery):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "EMAIL_DELIVERY_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
