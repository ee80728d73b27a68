package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// AppError carries a business code and the HTTP status it maps to.
type AppError struct {
	Code       int
	Message    string
	HTTPStatus int
	Cause      error
}

// New creates an AppError.
func New(code int, msg string, httpStatus int, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: httpStatus,
		Cause:      cause,
	}
}

// Wrap attaches a code, message and status to err.
func Wrap(err error, code int, msg string, httpStatus int) *AppError {
	return New(code, msg, httpStatus, err)
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error { return e.Cause }

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
