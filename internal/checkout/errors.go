package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no payment provider credentials are set.
	ErrNotConfigured = errors.New("payment provider is not configured")
	// ErrNoPrincipal means checkout was attempted without an
	// authenticated user, which can happen when auth is disabled.
	ErrNoPrincipal = errors.New("checkout requires an authenticated user")
	// ErrFreeBook means checkout was requested for a book that costs nothing.
	ErrFreeBook = errors.New("book is free and cannot be purchased")
	// ErrAlreadyEntitled means the user already holds a paid purchase.
	ErrAlreadyEntitled = errors.New("book is already purchased")
	// ErrBookNotFound means the book does not exist or is not approved.
	ErrBookNotFound = errors.New("book not found")
	// ErrPaymentIncomplete means the provider session exists but is unpaid.
	ErrPaymentIncomplete = errors.New("payment has not completed")
	// ErrVerificationFailed means the session's metadata does not match the
	// book and user the verification was requested for.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// ProviderErrorKind classifies provider failures for logging and responses.
type ProviderErrorKind string

const (
	// ProviderErrorAuth covers rejected or missing provider credentials.
	ProviderErrorAuth ProviderErrorKind = "auth"
	// ProviderErrorInvalid covers malformed or unknown session references.
	ProviderErrorInvalid ProviderErrorKind = "invalid"
	// ProviderErrorGeneric covers everything else: network, provider outage.
	ProviderErrorGeneric ProviderErrorKind = "generic"
)

// ProviderError wraps a payment provider failure with its classification.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider error (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
