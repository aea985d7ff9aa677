package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "User not found")
	ErrTaskNotFound       = NewError(ErrCodeNotFound, "Todo not found")
	ErrUsernameTaken      = NewError(ErrCodeInvalid, "Username already exists")
	ErrMissingCredentials = NewError(ErrCodeInvalid, "Username and password are required")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "Invalid username or password")
	ErrInvalidTaskText    = NewError(ErrCodeInvalid, "Invalid todo text")
	ErrInvalidTaskUpdate  = NewError(ErrCodeInvalid, "Invalid update data: provide valid text or completed status")
	ErrMissingToken       = NewError(ErrCodeUnauthorized, "Authentication required")
	ErrInvalidToken       = NewError(ErrCodeForbidden, "Invalid or expired token")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// PublicMessage returns the message safe to show to API callers. Wrapped causes
// are never included.
func PublicMessage(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	return ""
}
