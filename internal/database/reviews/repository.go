// Package reviews provides database operations for book reviews.
package reviews

import (
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Repository handles review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the user's review of a book, or updates rating and
// comment if one already exists. One review per (user, book).
func (r *Repository) Upsert(review *entities.Review) error {
	var existing entities.Review
	err := r.db.Where("user_id = ? AND book_id = ?", review.UserID, review.BookID).
		First(&existing).Error
	if err == nil {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		if err := r.db.Save(&existing).Error; err != nil {
			return err
		}
		*review = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(review).Error
}

// GetByUserAndBook returns the user's review, or gorm.ErrRecordNotFound.
func (r *Repository) GetByUserAndBook(userID, bookID uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByID returns a review by id, or gorm.ErrRecordNotFound.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByBook returns all reviews of a book, newest first, with the
// reviewing user preloaded.
func (r *Repository) ListByBook(bookID uint) ([]entities.Review, error) {
	var list []entities.Review
	err := r.db.Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// AverageRating returns the mean rating of a book, 0 when unreviewed.
func (r *Repository) AverageRating(bookID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&entities.Review{}).
		Where("book_id = ?", bookID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// Delete removes a review by id.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Review{}, id).Error
}
