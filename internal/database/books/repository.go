// Package books provides database operations for the catalog.
//
// Callers on the public surface must use the Approved* accessors; the
// entitlement and streaming paths never see unapproved books.
package books

import (
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Filter narrows catalog listings. Zero values mean "no filtering".
type Filter struct {
	Search   string // matches title, author or description
	Category string
	Author   string
	Type     entities.BookType
	Limit    int
	Offset   int
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetApprovedByID returns an approved book by id, or gorm.ErrRecordNotFound.
func (r *Repository) GetApprovedByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("is_approved = ?", true).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByID returns any book by id regardless of approval. Admin use only.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListApproved returns approved books matching the filter plus the total count.
func (r *Repository) ListApproved(f Filter) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{}).Where("is_approved = ?", true)

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR description LIKE ?", like, like, like)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Author != "" {
		query = query.Where("author LIKE ?", "%"+f.Author+"%")
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var books []entities.Book
	err := query.Find(&books).Error
	return books, total, err
}

// ListAll returns every book, newest first, optionally filtered by approval
// state. Admin use only.
func (r *Repository) ListAll(approved *bool) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{}).Order("created_at DESC")
	if approved != nil {
		query = query.Where("is_approved = ?", *approved)
	}
	var books []entities.Book
	err := query.Find(&books).Error
	return books, err
}

// ListFeatured returns the most viewed approved books.
func (r *Repository) ListFeatured(limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("is_approved = ?", true).
		Order("view_count DESC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// ListRecent returns the most recently added approved books.
func (r *Repository) ListRecent(limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("is_approved = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// ApprovedAuthors returns the distinct author names of approved books,
// used to populate catalog filters.
func (r *Repository) ApprovedAuthors() ([]string, error) {
	var authors []string
	err := r.db.Model(&entities.Book{}).
		Where("is_approved = ?", true).
		Distinct().
		Order("author ASC").
		Pluck("author", &authors).Error
	return authors, err
}

// Create inserts a new book record.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// Update saves changed fields of an existing book.
func (r *Repository) Update(book *entities.Book) error {
	return r.db.Save(book).Error
}

// Delete removes a book and its side-table rows.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&entities.Review{},
			&entities.Favourite{},
			&entities.ReadingHistory{},
			&entities.Purchase{},
		} {
			if err := tx.Where("book_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}

// Approve marks a book as publicly visible.
func (r *Repository) Approve(id uint) error {
	return r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		Update("is_approved", true).Error
}

// IncrementViewCount bumps the view counter without touching other fields.
func (r *Repository) IncrementViewCount(id uint) error {
	return r.db.Model(&entities.Book{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
