// Package tasks runs the library's background jobs: cover fetches,
// catalog enrichment and audit pruning. Jobs are persisted in their own
// sqlite database, so queued work survives a restart.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client owns the persistent job queue and its worker pool.
type Client struct {
	backend *backlite.Client
	db      *sql.DB
	workers int

	mu      sync.Mutex
	running bool
}

// QueueDBPath derives the job database path from the main database
// path: library.db becomes library.tasks.db. Keeping jobs out of the
// main database means queue churn never contends with catalog writes.
func QueueDBPath(mainDBPath string) string {
	dir, file := filepath.Split(mainDBPath)
	ext := filepath.Ext(file)
	if ext == "" {
		ext = ".db"
	}
	return filepath.Join(dir, strings.TrimSuffix(file, ext)+".tasks"+ext)
}

// NewClient opens the job database next to the main one and prepares
// the queue schema. Call Start to begin processing.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	queuePath := QueueDBPath(mainDBPath)

	db, err := sql.Open("sqlite3", queuePath+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open job database: %w", err)
	}
	// One connection per worker plus headroom for enqueues.
	db.SetMaxOpenConns(cfg.Workers + 2)

	backend, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          jobLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create job queue: %w", err)
	}
	if err := backend.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install job queue schema: %w", err)
	}

	return &Client{backend: backend, db: db, workers: cfg.Workers}, nil
}

// Register adds queues to the runner. All queues must be registered
// before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backend.Register(q)
	}
}

// Start runs the workers until ctx is cancelled. It blocks, so callers
// run it in a goroutine and use Stop to drain.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	log.Printf("Job queue started with %d workers", c.workers)
	c.backend.Start(ctx)
}

// Stop drains active jobs, reporting whether they all finished before
// the context deadline.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return true
	}

	drained := c.backend.Stop(ctx)
	if drained {
		log.Println("Job queue drained")
	} else {
		log.Println("Job queue stopped before all jobs finished")
	}
	return drained
}

// Close releases the job database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Add begins enqueueing one or more jobs; call Save on the result.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.backend.Add(tasks...)
}

// jobLogger routes backlite's messages into the server log.
type jobLogger struct{}

func (jobLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (jobLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
