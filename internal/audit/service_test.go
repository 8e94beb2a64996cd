package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepo "github.com/mujeebkhan77/digital-Library/internal/database/audit"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		UserID:      1,
		EventType:   entities.AuditEventAccess,
		Action:      "pdf_serve",
		Description: "free book",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "pdf_serve", saved.Action)
}

func TestService_LogAccess(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("granted access", func(t *testing.T) {
		svc.LogAccess(1, 42, "192.168.1.1", true, "purchased")

		// Allow async operation to complete
		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("description = ?", "purchased").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		require.NotNil(t, event.BookID)
		assert.Equal(t, uint(42), *event.BookID)
		assert.Equal(t, "192.168.1.1", event.IPAddress)
	})

	t.Run("denied access", func(t *testing.T) {
		svc.LogAccess(1, 43, "10.0.0.1", false, "purchase required")

		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("description = ?", "purchase required").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusDenied, event.Status)
	})
}

func TestService_LogAccessError(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAccessError(1, 42, "192.168.1.1", errors.New("document missing from storage"))

	time.Sleep(50 * time.Millisecond)

	var event entities.AuditEvent
	err := db.Where("status = ?", entities.AuditStatusFailed).First(&event).Error
	require.NoError(t, err)
	assert.Contains(t, event.ErrorMsg, "document missing")
}

func TestService_LogCheckout(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful verification", func(t *testing.T) {
		svc.LogCheckout(1, 42, "checkout_verify", "cs_test_1", nil)

		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("action = ?", "checkout_verify").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Contains(t, event.Metadata, "cs_test_1")
	})

	t.Run("failed verification", func(t *testing.T) {
		svc.LogCheckout(1, 42, "checkout_verify_failed", "cs_test_2", errors.New("metadata mismatch"))

		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("action = ?", "checkout_verify_failed").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "metadata mismatch")
	})
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful login", func(t *testing.T) {
		svc.LogAuth(1, "login", "192.168.1.1", true)

		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("action = ?", "login").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
	})

	t.Run("failed login", func(t *testing.T) {
		svc.LogAuth(0, "login_failed", "10.0.0.1", false)

		time.Sleep(50 * time.Millisecond)

		var event entities.AuditEvent
		err := db.Where("action = ?", "login_failed").First(&event).Error
		require.NoError(t, err)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
	})
}

func TestService_GetRecentEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	// Create some events synchronously
	for i := 0; i < 5; i++ {
		err := svc.Log(&entities.AuditEvent{
			UserID:    1,
			EventType: entities.AuditEventAccess,
			Action:    "pdf_serve",
			Status:    entities.AuditStatusSuccess,
		})
		require.NoError(t, err)
	}
	require.NoError(t, svc.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}))

	events, err := svc.GetRecentEvents("", 10)
	require.NoError(t, err)
	assert.Len(t, events, 6)

	accessOnly, err := svc.GetRecentEvents(entities.AuditEventAccess, 10)
	require.NoError(t, err)
	assert.Len(t, accessOnly, 5)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	// Create old event
	oldEvent := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAccess,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	// Create new event
	newEvent := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventCheckout,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	// Delete events older than 24 hours
	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
	}
}
