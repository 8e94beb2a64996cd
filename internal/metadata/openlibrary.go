package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// BookMetadata contains enriched book information from external sources.
type BookMetadata struct {
	Title            string   `json:"title,omitempty"`
	Author           string   `json:"author,omitempty"`
	Description      string   `json:"description,omitempty"`
	CoverURL         string   `json:"cover_url,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	OpenLibraryKey   string   `json:"open_library_key,omitempty"`
}

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewOpenLibraryClient creates a new OpenLibrary API client with rate limiting.
func NewOpenLibraryClient() *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     "https://openlibrary.org",
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// SearchByTitle looks up a book by title and author, returning the best match.
func (c *OpenLibraryClient) SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	c.rateLimiter.wait()

	q := url.QueryEscape(title)
	if author != "" {
		q = url.QueryEscape(fmt.Sprintf("%s %s", title, author))
	}

	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=5", c.baseURL, q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "DigitalLibrary/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var searchResult openLibrarySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(searchResult.Docs) == 0 {
		return nil, fmt.Errorf("no results found for: %s", title)
	}

	// Find the best match - prefer exact title match and matching author
	bestDoc := c.findBestMatch(searchResult.Docs, title, author)

	md := c.convertSearchDocToMetadata(bestDoc)

	// Search docs carry no description; the work record does.
	if bestDoc.Key != "" {
		if description, err := c.fetchWorkDescription(ctx, bestDoc.Key); err == nil {
			md.Description = description
		}
	}

	return md, nil
}

func (c *OpenLibraryClient) findBestMatch(docs []openLibrarySearchDoc, title, author string) *openLibrarySearchDoc {
	titleLower := strings.ToLower(title)
	authorLower := strings.ToLower(author)

	var bestMatch *openLibrarySearchDoc
	bestScore := -1

	for i := range docs {
		doc := &docs[i]
		score := 0

		// Exact title match
		if strings.ToLower(doc.Title) == titleLower {
			score += 10
		} else if strings.Contains(strings.ToLower(doc.Title), titleLower) {
			score += 5
		}

		// Author match
		if author != "" && len(doc.AuthorName) > 0 {
			for _, docAuthor := range doc.AuthorName {
				if strings.ToLower(docAuthor) == authorLower {
					score += 10
					break
				} else if strings.Contains(strings.ToLower(docAuthor), authorLower) {
					score += 5
					break
				}
			}
		}

		// Prefer books with covers
		if doc.CoverI != 0 || len(doc.ISBN) > 0 {
			score += 2
		}

		if score > bestScore {
			bestScore = score
			bestMatch = doc
		}
	}

	if bestMatch == nil && len(docs) > 0 {
		bestMatch = &docs[0]
	}

	return bestMatch
}

// fetchWorkDescription fetches the work record for a search hit and extracts
// its description, which may be a plain string or a typed text object.
func (c *OpenLibraryClient) fetchWorkDescription(ctx context.Context, workKey string) (string, error) {
	if workKey == "" {
		return "", fmt.Errorf("empty work key")
	}

	c.rateLimiter.wait()

	url := fmt.Sprintf("%s%s.json", c.baseURL, workKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "DigitalLibrary/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status: %d", resp.StatusCode)
	}

	var work struct {
		Description any `json:"description"` // Can be string or {type, value}
	}
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return "", err
	}

	switch v := work.Description.(type) {
	case string:
		return v, nil
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			return val, nil
		}
	}
	return "", fmt.Errorf("work has no description")
}

func (c *OpenLibraryClient) convertSearchDocToMetadata(doc *openLibrarySearchDoc) *BookMetadata {
	md := &BookMetadata{
		Title:            doc.Title,
		FirstPublishYear: doc.FirstPublishYear,
	}

	if len(doc.AuthorName) > 0 {
		md.Author = doc.AuthorName[0]
	}

	if len(doc.ISBN) > 0 {
		md.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", doc.ISBN[0])
	} else if doc.CoverI != 0 {
		md.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverI)
	}

	if len(doc.Subject) > 0 {
		md.Subjects = doc.Subject
		if len(md.Subjects) > 10 {
			md.Subjects = md.Subjects[:10]
		}
	}

	if doc.Key != "" {
		md.OpenLibraryKey = doc.Key
	}

	return md
}

// OpenLibrary API response types (internal)

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	CoverI           int      `json:"cover_i"`
	Subject          []string `json:"subject"`
}
