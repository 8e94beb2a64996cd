package entities

import (
	"time"
)

type BookType string

const (
	BookTypeFree BookType = "free"
	BookTypePaid BookType = "paid"
)

// Categories match the fixed set the catalog was seeded with.
var BookCategories = []string{
	"Science",
	"Engineering",
	"Fiction",
	"Computer Science",
	"Islamiyat",
	"History",
	"Biography",
	"Literature",
}

// Book is a catalog entry. PDFPath points at the asset on durable storage
// and is never serialized; readers only ever see the /books/:id/pdf route.
type Book struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"index;size:200" json:"title"`
	Author      string   `gorm:"index;size:100" json:"author"`
	Description string   `gorm:"type:text" json:"description"`
	Category    string   `gorm:"index;size:50" json:"category"`
	Type        BookType `gorm:"size:10;default:'free'" json:"type"`
	CoverURL    string   `gorm:"size:2048" json:"cover_url,omitempty"`
	PDFPath     string   `gorm:"size:1024" json:"-"`
	IsApproved  bool     `gorm:"index;default:false" json:"is_approved"`
	ViewCount   int      `gorm:"default:0" json:"view_count"`

	// Maintained by the stats scheduler, not written on the request path.
	AverageRating float64 `json:"average_rating"`
	ReadCount     int64   `json:"read_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Book) IsPaid() bool {
	return b.Type == BookTypePaid
}

// IsValidCategory reports whether category is one of the known catalog categories.
func IsValidCategory(category string) bool {
	for _, c := range BookCategories {
		if c == category {
			return true
		}
	}
	return false
}
