// Package checkout orchestrates paid-book purchases against a payment
// provider and records the outcome in the purchase ledger.
package checkout

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// BookStore supplies catalog lookups for checkout.
type BookStore interface {
	GetApprovedByID(id uint) (*entities.Book, error)
}

// Ledger records and queries completed purchases.
type Ledger interface {
	HasPaid(userID, bookID uint) (bool, error)
	Upsert(userID, bookID uint, paymentID string) (*entities.Purchase, error)
	PaymentIDExists(paymentID string) (bool, error)
}

// Config carries the pricing applied to every paid book.
type Config struct {
	PriceCents int64
	Currency   string
	// BaseURL is the externally reachable origin used to build the
	// success and cancel redirect targets.
	BaseURL string
}

// Orchestrator drives the create-session / verify-session flow.
type Orchestrator struct {
	provider Provider
	books    BookStore
	ledger   Ledger
	config   Config
}

func NewOrchestrator(provider Provider, books BookStore, ledger Ledger, cfg Config) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		books:    books,
		ledger:   ledger,
		config:   cfg,
	}
}

// Configured reports whether a payment provider is available.
func (o *Orchestrator) Configured() bool {
	return o.provider != nil
}

// CreateSession opens a provider checkout session for user buying bookID.
//
// It refuses free books, already-purchased books and unknown books, so a
// session only ever exists for a purchase that could actually proceed.
func (o *Orchestrator) CreateSession(user *entities.User, bookID uint) (*Session, error) {
	if o.provider == nil {
		return nil, ErrNotConfigured
	}
	if user == nil {
		return nil, ErrNoPrincipal
	}

	book, err := o.books.GetApprovedByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if !book.IsPaid() {
		return nil, ErrFreeBook
	}

	paid, err := o.ledger.HasPaid(user.ID, book.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger: %w", err)
	}
	if paid {
		return nil, ErrAlreadyEntitled
	}

	session, err := o.provider.CreateSession(SessionRequest{
		BookID:      book.ID,
		UserID:      user.ID,
		Title:       book.Title,
		Description: fmt.Sprintf("Digital copy of %q by %s", book.Title, book.Author),
		AmountCents: o.config.PriceCents,
		Currency:    o.config.Currency,
		SuccessURL:  o.config.BaseURL + "/api/payments/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   o.config.BaseURL + "/api/payments/cancelled",
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Created checkout session %s for user %d, book %d", session.ID, user.ID, book.ID)
	return session, nil
}

// ProviderSession fetches the raw provider session without recording
// anything. Handlers use it to recover the book a redirect belongs to.
func (o *Orchestrator) ProviderSession(sessionID string) (*Session, error) {
	if o.provider == nil {
		return nil, ErrNotConfigured
	}
	return o.provider.GetSession(sessionID)
}

// VerifySession confirms a provider session is paid and records the
// purchase in the ledger.
//
// The session's metadata must name the same user and book the caller
// claims; a mismatch writes nothing and fails verification. Recording is
// an upsert keyed on (user, book), so verifying the same session twice
// yields one ledger row.
func (o *Orchestrator) VerifySession(user *entities.User, bookID uint, sessionID string) (*entities.Purchase, error) {
	if o.provider == nil {
		return nil, ErrNotConfigured
	}
	if user == nil {
		return nil, ErrNoPrincipal
	}

	session, err := o.provider.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != user.ID || session.BookID != bookID {
		log.Printf("Checkout session %s metadata mismatch: session (user=%d, book=%d) vs request (user=%d, book=%d)",
			sessionID, session.UserID, session.BookID, user.ID, bookID)
		return nil, ErrVerificationFailed
	}
	if !session.Paid {
		return nil, ErrPaymentIncomplete
	}

	// A known transaction id means this confirmation is a redelivery;
	// the upsert below converges on the existing row either way.
	if known, err := o.ledger.PaymentIDExists(session.TransactionID); err == nil && known {
		log.Printf("Checkout session %s redelivers transaction %s", sessionID, session.TransactionID)
	}

	purchase, err := o.ledger.Upsert(user.ID, bookID, session.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	log.Printf("Recorded purchase %d for user %d, book %d (txn %s)", purchase.ID, user.ID, bookID, session.TransactionID)
	return purchase, nil
}
