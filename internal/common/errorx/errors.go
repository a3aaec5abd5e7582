package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryAuthorization  ErrorCategory = "authorization"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryInternal       ErrorCategory = "internal"
)

// APIError represents a structured API error.
type APIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Category   ErrorCategory  `json:"category"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Category, e.Message)
}

// WithDetail returns a copy of the error carrying an extra detail entry.
func (e *APIError) WithDetail(key string, value any) *APIError {
	clone := e.clone()
	if clone.Details == nil {
		clone.Details = make(map[string]any)
	}
	clone.Details[key] = value
	return clone
}

// WithMessage returns a copy of the error with a more specific message.
func (e *APIError) WithMessage(msg string) *APIError {
	clone := e.clone()
	clone.Message = msg
	return clone
}

// WithTraceID returns a copy of the error carrying the request trace id.
func (e *APIError) WithTraceID(traceID string) *APIError {
	clone := e.clone()
	clone.TraceID = traceID
	return clone
}

func (e *APIError) clone() *APIError {
	details := make(map[string]any, len(e.Details))
	for k, v := range e.Details {
		details[k] = v
	}
	if len(details) == 0 {
		details = nil
	}
	return &APIError{
		Code:       e.Code,
		Message:    e.Message,
		Category:   e.Category,
		HTTPStatus: e.HTTPStatus,
		Details:    details,
		TraceID:    e.TraceID,
	}
}

// Common error values.
var (
	ErrInvalidInput = &APIError{
		Code:       "E1001",
		Message:    "Invalid input provided",
		Category:   CategoryValidation,
		HTTPStatus: http.StatusBadRequest,
	}

	ErrUnauthorized = &APIError{
		Code:       "E2001",
		Message:    "Authentication required",
		Category:   CategoryAuthentication,
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &APIError{
		Code:       "E2002",
		Message:    "Invalid email or password",
		Category:   CategoryAuthentication,
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrForbidden = &APIError{
		Code:       "E3001",
		Message:    "Access denied",
		Category:   CategoryAuthorization,
		HTTPStatus: http.StatusForbidden,
	}

	ErrNotFound = &APIError{
		Code:       "E4001",
		Message:    "Requested resource not found",
		Category:   CategoryNotFound,
		HTTPStatus: http.StatusNotFound,
	}

	ErrDuplicateEmail = &APIError{
		Code:       "E4091",
		Message:    "Email already in use",
		Category:   CategoryConflict,
		HTTPStatus: http.StatusConflict,
	}

	ErrInternalServer = &APIError{
		Code:       "E5001",
		Message:    "Internal server error occurred",
		Category:   CategoryInternal,
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrDatabaseError = &APIError{
		Code:       "E5002",
		Message:    "Database operation failed",
		Category:   CategoryInternal,
		HTTPStatus: http.StatusInternalServerError,
	}
)

// Validation builds a validation error from a binding failure. Field-level
// messages are extracted when the underlying error is a validator error set.
func Validation(err error) *APIError {
	out := ErrInvalidInput
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
		}
		out = out.WithDetail("fields", fields)
	} else if err != nil {
		out = out.WithDetail("reason", err.Error())
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

// From normalizes an arbitrary error into an *APIError.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternalServer
}
