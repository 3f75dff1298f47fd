package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string // Error code (e.g., INVALID_INPUT)
	Message    string // User-friendly message
	HTTPStatus int    // HTTP status code
	Err        error  // Wrapped original error (optional)
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError without wrapping
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        nil,
	}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// RequiredField builds a validation error for a missing field
func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s is required", field), http.StatusBadRequest)
}

// InvalidField builds a validation error for a malformed field
func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s is invalid", field), http.StatusBadRequest)
}

// HTTPError is the flattened form handlers hand to the response writer.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to an HTTPError. Unknown errors become a generic 500
// so internal details never leak to the client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
