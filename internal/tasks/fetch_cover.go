package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mujeebkhan77/digital-Library/internal/covers"
)

// FetchCoverTask downloads a book's cover image into the local cache so
// catalog pages never block on the upstream image host.
type FetchCoverTask struct {
	BookID   uint   `json:"book_id"`
	CoverURL string `json:"cover_url"`
}

// Config returns the queue configuration for cover fetch tasks.
func (t FetchCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "fetch_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FetchCoverProcessor creates a processor function for FetchCoverTask.
func FetchCoverProcessor(cache *covers.Cache) backlite.QueueProcessor[FetchCoverTask] {
	return func(ctx context.Context, task FetchCoverTask) error {
		if cache == nil {
			return fmt.Errorf("cover cache not configured")
		}

		path, err := cache.Ensure(ctx, task.BookID, task.CoverURL)
		if err != nil {
			return fmt.Errorf("fetch cover for book %d: %w", task.BookID, err)
		}
		if path == "" {
			log.Printf("[TASK] Book %d has no cover URL, nothing to fetch", task.BookID)
			return nil
		}

		log.Printf("[TASK] Cached cover for book %d at %s", task.BookID, path)
		return nil
	}
}

// NewFetchCoverQueue creates a backlite queue for cover fetch tasks.
func NewFetchCoverQueue(cache *covers.Cache) backlite.Queue {
	return backlite.NewQueue(FetchCoverProcessor(cache))
}
