package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/mujeebkhan77/digital-Library/internal/database/audit"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogAccess records a document access attempt. The client only ever
// sees an undifferentiated denial; the reason is preserved here.
func (s *Service) LogAccess(userID, bookID uint, ipAddr string, allowed bool, reason string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAccess,
		Action:      "pdf_serve",
		Description: reason,
		BookID:      &bookID,
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}
	if !allowed {
		event.Status = entities.AuditStatusDenied
	}
	s.LogAsync(event)
}

// LogAccessError records an operational fault on the access path, such
// as a document missing from storage.
func (s *Service) LogAccessError(userID, bookID uint, ipAddr string, err error) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAccess,
		Action:    "pdf_serve",
		BookID:    &bookID,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusFailed,
		ErrorMsg:  truncate(err.Error(), 500),
	}
	s.LogAsync(event)
}

// LogCheckout records a checkout lifecycle event: session creation,
// verification, or a provider failure.
func (s *Service) LogCheckout(userID, bookID uint, action, sessionID string, err error) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventCheckout,
		Action:    action,
		BookID:    &bookID,
		Status:    entities.AuditStatusSuccess,
	}

	metadata := map[string]any{"session_id": sessionID}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusSuccess,
	}
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.LogAsync(event)
}

// LogAdmin records a catalog administration event.
func (s *Service) LogAdmin(userID uint, action, description string, bookID uint) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAdmin,
		Action:      action,
		Description: description,
		BookID:      &bookID,
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

// GetRecentEvents retrieves the newest events, optionally filtered by type.
func (s *Service) GetRecentEvents(eventType entities.AuditEventType, limit int) ([]entities.AuditEvent, error) {
	return s.repo.ListRecent(eventType, limit)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOlderThan(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
