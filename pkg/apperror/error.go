package apperror

import (
	"net/http"
	"strings"
)

type AppError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Err       error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithRequestID returns a copy of the error that will expose the request id
// to the caller.
func (e *AppError) WithRequestID(requestID string) *AppError {
	cp := *e
	cp.RequestID = requestID
	return &cp
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Validation builds a 400 error listing every violated rule
func Validation(violations []string) *AppError {
	return BadRequest("Validation failed: " + strings.Join(violations, ", "))
}

// MsgInternal is the only thing a caller learns about an unexpected failure
const MsgInternal = "An unexpected error occurred. Please try again later."

// Internal hides err behind the generic 500 message
func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, MsgInternal, err)
}
