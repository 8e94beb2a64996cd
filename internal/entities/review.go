package entities

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's rating of a book. One review per (user, book).
type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"uniqueIndex:idx_reviews_user_book;index" json:"user_id"`
	BookID  uint   `gorm:"uniqueIndex:idx_reviews_user_book;index" json:"book_id"`
	Rating  int    `json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Favourite marks a book as favourited by a user. One row per (user, book).
type Favourite struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_favourites_user_book;index" json:"user_id"`
	BookID uint `gorm:"uniqueIndex:idx_favourites_user_book" json:"book_id"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
