// Package favourites provides database operations for favourite books.
package favourites

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Repository handles favourites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add marks a book as favourited. Idempotent: repeating for the same
// pair neither errors nor duplicates.
func (r *Repository) Add(userID, bookID uint) error {
	fav := &entities.Favourite{UserID: userID, BookID: bookID}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(fav).Error
}

// Remove unmarks a favourite. Removing an absent row is a no-op.
func (r *Repository) Remove(userID, bookID uint) error {
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.Favourite{}).Error
}

// Exists reports whether the user has favourited the book.
func (r *Repository) Exists(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favourite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser returns the user's favourites, newest first, with books
// preloaded.
func (r *Repository) ListByUser(userID uint) ([]entities.Favourite, error) {
	var list []entities.Favourite
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// CountByBook returns how many users favourited a book.
func (r *Repository) CountByBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Favourite{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count, err
}
