package apperror

import (
	"errors"
	"net/http"
)

// Codes shared by the request-path gates. Entity-specific codes
// (STUDENT_NOT_FOUND, SCHOOL_CREATION_ERROR, ...) live with the services
// that raise them.
const (
	CodeAuthRequired   = "AUTH_REQUIRED"
	CodeAuthInvalid    = "AUTH_INVALID"
	CodeRoleMissing    = "ROLE_MISSING"
	CodeRoleForbidden  = "ROLE_FORBIDDEN"
	CodeTenantRequired = "TENANT_REQUIRED"
	CodeTenantMismatch = "TENANT_MISMATCH"
	CodeValidation     = "VALIDATION_FAILED"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeServer         = "SERVER_ERROR"
)

// Error is the uniform failure shape raised by every gate and service. It
// doubles as the JSON envelope the HTTP error handler writes, so the field
// names match the wire format.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Details    any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error without details.
func New(message string, statusCode int, code string) *Error {
	return &Error{Message: message, StatusCode: statusCode, Code: code}
}

// WithDetails creates an Error carrying opaque diagnostic details.
func WithDetails(message string, statusCode int, code string, details any) *Error {
	return &Error{Message: message, StatusCode: statusCode, Code: code, Details: details}
}

// From normalizes any error into an *Error. Errors that are not already an
// *Error become a 500 SERVER_ERROR preserving the original message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		Code:       CodeServer,
	}
}
