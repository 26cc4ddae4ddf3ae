package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPricingNotConfigured signals a missing price table entry.
	ErrPricingNotConfigured = errors.New("pricing not configured")
	// ErrQuoteNotFound signals an unknown or expired quote id.
	ErrQuoteNotFound = errors.New("quote expired or not found")
	// ErrNotAccepted signals a declined confirmation.
	ErrNotAccepted = errors.New("not accepted")
	// ErrUpstreamFailure signals a failure of the upstream LLM provider.
	ErrUpstreamFailure = errors.New("upstream provider failure")
	// ErrValidation signals a malformed or out-of-range request field.
	ErrValidation = errors.New("validation failed")

	// ErrUserNotFound signals a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists signals a duplicate user id on create.
	ErrUserExists = errors.New("user already exists")
)

// PricingError wraps ErrPricingNotConfigured with the missing price table key
// so operators can see exactly which provider:model entry is absent.
type PricingError struct {
	Key string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("Pricing not configured for %s", e.Key)
}

func (e *PricingError) Unwrap() error { return ErrPricingNotConfigured }

// NewPricingError creates a pricing error for a provider:model key.
func NewPricingError(key string) error {
	return &PricingError{Key: key}
}

// ValidationError wraps ErrValidation with a client-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error with the given message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
