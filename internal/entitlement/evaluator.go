// Package entitlement decides whether a user may open a book's content.
//
// The evaluator is a pure decision layer: it consults the purchase
// ledger through a narrow interface and never touches HTTP, sessions
// or files. Handlers translate its decisions into status codes.
package entitlement

import (
	"fmt"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Decision reasons, stable strings suitable for logs and API payloads.
const (
	ReasonFreeBook         = "free book"
	ReasonPurchased        = "purchased"
	ReasonPurchaseRequired = "purchase required"
	ReasonNotApproved      = "book not approved"
)

// Decision is the outcome of an access evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

// PurchaseChecker reports whether a user holds a paid purchase of a book.
type PurchaseChecker interface {
	HasPaid(userID, bookID uint) (bool, error)
}

// Evaluator answers access questions for book content.
type Evaluator struct {
	purchases PurchaseChecker
}

func NewEvaluator(purchases PurchaseChecker) *Evaluator {
	return &Evaluator{purchases: purchases}
}

// CanAccess evaluates whether user may open book's content.
//
// Free books are open to any authenticated user. Paid books require a
// paid ledger row. Unapproved books are denied for everyone here; admin
// preview bypasses the evaluator entirely.
func (e *Evaluator) CanAccess(user *entities.User, book *entities.Book) (Decision, error) {
	if book == nil || !book.IsApproved {
		return Decision{Allowed: false, Reason: ReasonNotApproved}, nil
	}
	if !book.IsPaid() {
		return Decision{Allowed: true, Reason: ReasonFreeBook}, nil
	}
	if user == nil {
		return Decision{Allowed: false, Reason: ReasonPurchaseRequired}, nil
	}

	paid, err := e.purchases.HasPaid(user.ID, book.ID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check purchase: %w", err)
	}
	if !paid {
		return Decision{Allowed: false, Reason: ReasonPurchaseRequired}, nil
	}
	return Decision{Allowed: true, Reason: ReasonPurchased}, nil
}
