package entities

import (
	"time"
)

// Purchase is one entitlement ledger row: user X may read paid book Y.
//
// Uniqueness is enforced by the schema, not by application-level
// check-then-insert: the composite index collapses concurrent checkout
// confirmations for the same pair onto a single row, and the unique
// provider payment id prevents one provider transaction from being
// replayed into multiple entitlements. Rows are never deleted; there is
// no refund path.
type Purchase struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	UserID          uint   `gorm:"uniqueIndex:idx_purchases_user_book;index" json:"user_id"`
	BookID          uint   `gorm:"uniqueIndex:idx_purchases_user_book" json:"book_id"`
	StripePaymentID string `gorm:"uniqueIndex;size:255" json:"-"`
	IsPaid          bool   `gorm:"default:true" json:"is_paid"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"purchased_at"`
	UpdatedAt time.Time `json:"-"`
}
