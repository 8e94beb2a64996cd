// Package audit provides database operations for the audit trail.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Repository handles audit event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new audit repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent persists a single audit event.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	return r.db.Create(event).Error
}

// ListRecent returns the newest events, optionally filtered by type.
func (r *Repository) ListRecent(eventType entities.AuditEventType, limit int) ([]entities.AuditEvent, error) {
	query := r.db.Model(&entities.AuditEvent{}).Order("created_at DESC")
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []entities.AuditEvent
	err := query.Find(&events).Error
	return events, err
}

// DeleteOlderThan prunes events created before the cutoff. Returns the
// number of rows removed.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
