package entities

import (
	"time"
)

// ReadingHistory records that a user has streamed a book. One row per
// (user, book); FirstReadAt is set once, LastReadAt advances on every
// successful stream.
type ReadingHistory struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_history_user_book;index" json:"user_id"`
	BookID uint `gorm:"uniqueIndex:idx_history_user_book" json:"book_id"`

	FirstReadAt time.Time `json:"first_read_at"`
	LastReadAt  time.Time `gorm:"index" json:"last_read_at"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ReadingHistory) TableName() string {
	return "reading_histories"
}
