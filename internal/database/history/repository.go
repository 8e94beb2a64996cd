// Package history provides database operations for reading history.
package history

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Repository handles reading-history database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reading-history repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordRead upserts the access event for a (user, book) pair: the first
// stream creates the row, every later stream advances last_read_at and
// leaves first_read_at untouched. Concurrent calls for the same pair
// resolve at the unique index; last write wins on the timestamp.
func (r *Repository) RecordRead(userID, bookID uint) error {
	now := time.Now()
	row := &entities.ReadingHistory{
		UserID:      userID,
		BookID:      bookID,
		FirstReadAt: now,
		LastReadAt:  now,
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_read_at": now,
		}),
	}).Create(row).Error
}

// Get returns the history row for a pair, or gorm.ErrRecordNotFound.
func (r *Repository) Get(userID, bookID uint) (*entities.ReadingHistory, error) {
	var row entities.ReadingHistory
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the user's history, most recently read first, with
// books preloaded for the "continue reading" listing.
func (r *Repository) ListByUser(userID uint, limit int) ([]entities.ReadingHistory, error) {
	query := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("last_read_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []entities.ReadingHistory
	err := query.Find(&rows).Error
	return rows, err
}

// CountByBook returns the number of distinct readers of a book.
func (r *Repository) CountByBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.ReadingHistory{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count, err
}
