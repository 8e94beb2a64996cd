package auth

import (
	"sync"
	"time"
)

// LoginRateLimiter tracks failed login attempts per client key with a
// sliding window. Keys combine remote IP and attempted username so a
// single IP cannot spray across accounts unchecked.
type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
}

func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow reports whether another attempt is permitted for key.
func (l *LoginRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	recent := l.pruneLocked(key, now)
	return len(recent) < l.maxAttempts
}

// Record registers a failed attempt for key.
func (l *LoginRateLimiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	recent := l.pruneLocked(key, now)
	l.attempts[key] = append(recent, now)
}

// Reset clears recorded attempts for key after a successful login.
func (l *LoginRateLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}

func (l *LoginRateLimiter) pruneLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	var recent []time.Time
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(l.attempts, key)
	} else {
		l.attempts[key] = recent
	}
	return recent
}
