// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrInputNotFound = errors.New("input file not found")
	ErrNoReviews     = errors.New("no reviews to process")
	ErrInvalidTable  = errors.New("invalid review table")

	// Model errors.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrEmptyPrediction  = errors.New("model returned no predictions")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the operator.
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

// NewUserError creates a new operator-facing error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// MissingInputError reports an absent input table with a hint on how to produce it.
func MissingInputError(path, hint string) error {
	msg := fmt.Sprintf("data not found at %s", path)
	if hint != "" {
		msg += " (" + hint + ")"
	}
	return NewUserError(msg, ErrInputNotFound)
}
