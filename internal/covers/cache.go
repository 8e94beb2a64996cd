// Package covers keeps local copies of book cover images so catalog
// pages are never blocked on the upstream image host.
package covers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxCoverBytes caps a single downloaded cover. Anything larger is not
// a cover image.
const maxCoverBytes = 10 << 20

// Cache stores fetched covers on disk, one file per (book, source URL).
type Cache struct {
	dir    string
	client *http.Client
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cover cache dir: %w", err)
	}
	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Ensure returns the local path of the book's cover, downloading it on
// first use. An empty coverURL yields an empty path and no error.
func (c *Cache) Ensure(ctx context.Context, bookID uint, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	path := c.entryPath(bookID, coverURL)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := c.download(ctx, coverURL, path); err != nil {
		return "", err
	}
	return path, nil
}

// Invalidate drops every cached cover for a book. Used when an admin
// changes or removes the cover URL, and on book deletion.
func (c *Cache) Invalidate(bookID uint) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("%d-*.jpg", bookID)))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// entryPath names the cache file for a (book, URL) pair. The URL hash
// in the name means a changed cover URL naturally misses the cache.
func (c *Cache) entryPath(bookID uint, coverURL string) string {
	sum := sha256.Sum256([]byte(coverURL))
	return filepath.Join(c.dir, fmt.Sprintf("%d-%x.jpg", bookID, sum[:8]))
}

// download fetches the image into a temp file and renames it into
// place, so a concurrent reader never sees a partial cover.
func (c *Cache) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "DigitalLibrary/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch cover: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, "pending-")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxCoverBytes)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}
