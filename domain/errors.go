package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound              ErrorCode = "NOT_FOUND"
	ErrCodeInvalid               ErrorCode = "INVALID"
	ErrCodeConflict              ErrorCode = "CONFLICT"
	ErrCodeListingInactive       ErrorCode = "LISTING_INACTIVE"
	ErrCodeInsufficientAllowance ErrorCode = "INSUFFICIENT_ALLOWANCE"
	ErrCodeInsufficientBalance   ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeOverflow              ErrorCode = "OVERFLOW"
	ErrCodeUnauthorized          ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal              ErrorCode = "INTERNAL"
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

// Is lets sentinel comparisons survive WrapError chains.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e != nil && e.Code == t.Code && e.Message == t.Message
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
	ErrUserNotFound          = NewError(ErrCodeNotFound, "user not found")
	ErrUserAlreadyExists     = NewError(ErrCodeConflict, "user already registered")
	ErrListingNotFound       = NewError(ErrCodeNotFound, "listing not found")
	ErrListingInactive       = NewError(ErrCodeListingInactive, "listing already consumed")
	ErrInvalidListing        = NewError(ErrCodeInvalid, "invalid listing")
	ErrInvalidIdentity       = NewError(ErrCodeInvalid, "invalid identity")
	ErrInsufficientAllowance = NewError(ErrCodeInsufficientAllowance, "allowance does not cover amount")
	ErrInsufficientBalance   = NewError(ErrCodeInsufficientBalance, "balance does not cover amount")
	ErrOverflow              = NewError(ErrCodeOverflow, "amount overflow")
	ErrFactConflict          = NewError(ErrCodeConflict, "fact references unknown listing")
	ErrInvalidPayload        = NewError(ErrCodeInvalid, "invalid payload")
	ErrUnauthorized          = NewError(ErrCodeUnauthorized, "unauthorized")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
