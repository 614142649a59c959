// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Store errors.
	ErrStoreUnreadable = errors.New("cannot open the store")
	ErrStoreCorrupt    = errors.New("store corrupted")

	// Input errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// InvalidArgument wraps a message as an ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsFatalStoreError reports whether err came from reading the store.
func IsFatalStoreError(err error) bool {
	return errors.Is(err, ErrStoreUnreadable) || errors.Is(err, ErrStoreCorrupt)
}
