package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/config"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	svc := NewService(db, config.Auth{
		Mode:             config.AuthModeLocal,
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
	})
	return svc, db
}

func TestService_CreateUser(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("creates a regular user", func(t *testing.T) {
		user, err := svc.CreateUser("alice", "alice@example.com", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, entities.UserRoleUser, user.Role)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "a-long-enough-password", user.PasswordHash)

		var saved entities.User
		require.NoError(t, db.First(&saved, user.ID).Error)
		assert.Equal(t, "alice", saved.Username)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.CreateUser("alice", "other@example.com", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser("alice2", "alice@example.com", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		_, err := svc.CreateUser("a b!", "valid@example.com", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrUsernameInvalid)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := svc.CreateUser("bob", "not-an-email", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrEmailInvalid)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := svc.CreateUser("bob", "bob@example.com", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestService_CreateAdmin(t *testing.T) {
	svc, _ := setupTestService(t)

	user, err := svc.CreateAdmin("admin", "admin@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, user.Role)
	assert.True(t, user.IsAdmin())
}

func TestService_Authenticate(t *testing.T) {
	svc, db := setupTestService(t)

	_, err := svc.CreateUser("carol", "carol@example.com", "a-long-enough-password")
	require.NoError(t, err)

	t.Run("valid credentials by username", func(t *testing.T) {
		user, err := svc.Authenticate("carol", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, "carol", user.Username)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("valid credentials by email", func(t *testing.T) {
		user, err := svc.Authenticate("carol@example.com", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, "carol", user.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate("nobody", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password increments failure counter", func(t *testing.T) {
		_, err := svc.Authenticate("carol", "wrong-password-here")
		require.Error(t, err)

		var user entities.User
		require.NoError(t, db.Where("username = ?", "carol").First(&user).Error)
		assert.Equal(t, 1, user.FailedLoginCount)
	})

	t.Run("lockout after repeated failures", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, _ = svc.Authenticate("carol", "wrong-password-here")
		}

		var user entities.User
		require.NoError(t, db.Where("username = ?", "carol").First(&user).Error)
		require.NotNil(t, user.LockedUntil)
		assert.True(t, user.LockedUntil.After(time.Now()))

		_, err := svc.Authenticate("carol", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrAccountLocked)
	})

	t.Run("successful login resets counters", func(t *testing.T) {
		// Expire the lock manually, then log in.
		past := time.Now().Add(-time.Minute)
		require.NoError(t, db.Model(&entities.User{}).
			Where("username = ?", "carol").
			Update("locked_until", past).Error)

		user, err := svc.Authenticate("carol", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, 0, user.FailedLoginCount)
		assert.Nil(t, user.LockedUntil)
	})
}

func TestService_HasUsers(t *testing.T) {
	svc, _ := setupTestService(t)

	has, err := svc.HasUsers()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.CreateUser("dave", "dave@example.com", "a-long-enough-password")
	require.NoError(t, err)

	has, err = svc.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestService_IsAuthEnabled(t *testing.T) {
	svc, _ := setupTestService(t)
	assert.True(t, svc.IsAuthEnabled())

	disabled := NewService(nil, config.Auth{Mode: config.AuthModeNone})
	assert.False(t, disabled.IsAuthEnabled())
}
