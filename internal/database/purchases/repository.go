// Package purchases is the entitlement ledger: one row per (user, book)
// pair that has been paid for.
//
// The (user_id, book_id) pair and the provider payment id are unique at
// the schema level. Upsert leans on the composite index instead of
// check-then-insert, so at-least-once delivery of a checkout
// confirmation (retries, double-clicks, concurrent callbacks) converges
// on exactly one row.
package purchases

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Repository handles all purchase ledger operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new purchases repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// HasPaid reports whether a paid ledger row exists for the pair.
func (r *Repository) HasPaid(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Purchase{}).
		Where("user_id = ? AND book_id = ? AND is_paid = ?", userID, bookID, true).
		Count(&count).Error
	return count > 0, err
}

// Get returns the ledger row for a pair, or gorm.ErrRecordNotFound.
func (r *Repository) Get(userID, bookID uint) (*entities.Purchase, error) {
	var purchase entities.Purchase
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Upsert records a confirmed purchase. Creates the row on first
// confirmation; on repeat delivery it refreshes the provider payment id
// and reaffirms is_paid without erroring or duplicating.
func (r *Repository) Upsert(userID, bookID uint, paymentID string) (*entities.Purchase, error) {
	purchase := &entities.Purchase{
		UserID:          userID,
		BookID:          bookID,
		StripePaymentID: paymentID,
		IsPaid:          true,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"stripe_payment_id": paymentID,
			"is_paid":           true,
			"updated_at":        time.Now(),
		}),
	}).Create(purchase).Error
	if err != nil {
		return nil, err
	}

	// The conflict path does not populate the struct; read the row back.
	return r.Get(userID, bookID)
}

// ListPaidByUser returns the user's purchases, newest first, with books
// preloaded for the "purchased books" listing.
func (r *Repository) ListPaidByUser(userID uint) ([]entities.Purchase, error) {
	var list []entities.Purchase
	err := r.db.Preload("Book").
		Where("user_id = ? AND is_paid = ?", userID, true).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// PaymentIDExists reports whether a provider transaction id is already
// recorded, for replay diagnostics.
func (r *Repository) PaymentIDExists(paymentID string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Purchase{}).
		Where("stripe_payment_id = ?", paymentID).
		Count(&count).Error
	return count > 0, err
}
