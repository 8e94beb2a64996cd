package tasks

import "time"

// Config sizes the job runner. Per-queue retry and timeout policy
// lives on each task's Config method, not here.
type Config struct {
	// Workers is the number of concurrent job workers.
	Workers int

	// ReleaseAfter is how long a claimed job may run before it is
	// handed back to the queue, covering a worker that died mid-job.
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished jobs past their retention
	// are purged.
	CleanupInterval time.Duration
}

// DefaultConfig returns the runner defaults used when the environment
// sets none.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
