package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

func setupStatsDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.Book{}, &entities.User{}, &entities.Review{}, &entities.ReadingHistory{},
	))
	return db
}

func TestRecompute(t *testing.T) {
	db := setupStatsDB(t)

	book := &entities.Book{Title: "Rated", Author: "a", Category: "Fiction", IsApproved: true}
	require.NoError(t, db.Create(book).Error)
	other := &entities.Book{Title: "Unrated", Author: "b", Category: "Fiction", IsApproved: true}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, db.Create(&entities.Review{UserID: 1, BookID: book.ID, Rating: 4}).Error)
	require.NoError(t, db.Create(&entities.Review{UserID: 2, BookID: book.ID, Rating: 2}).Error)

	require.NoError(t, db.Create(&entities.ReadingHistory{UserID: 1, BookID: book.ID}).Error)
	require.NoError(t, db.Create(&entities.ReadingHistory{UserID: 2, BookID: book.ID}).Error)
	require.NoError(t, db.Create(&entities.ReadingHistory{UserID: 3, BookID: book.ID}).Error)

	s := NewStatsScheduler(db, "*/15 * * * *")
	require.NoError(t, s.Recompute())

	var rated entities.Book
	require.NoError(t, db.First(&rated, book.ID).Error)
	assert.InDelta(t, 3.0, rated.AverageRating, 0.001)
	assert.Equal(t, int64(3), rated.ReadCount)

	var unrated entities.Book
	require.NoError(t, db.First(&unrated, other.ID).Error)
	assert.Zero(t, unrated.AverageRating)
	assert.Zero(t, unrated.ReadCount)
}

func TestStatsScheduler_StartStop(t *testing.T) {
	db := setupStatsDB(t)
	s := NewStatsScheduler(db, "*/15 * * * *")

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestStatsScheduler_InvalidSchedule(t *testing.T) {
	db := setupStatsDB(t)
	s := NewStatsScheduler(db, "not a schedule")

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}
