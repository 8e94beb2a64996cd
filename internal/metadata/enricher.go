package metadata

import (
	"context"
	"fmt"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// Provider defines the interface for fetching book metadata.
type Provider interface {
	SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error)
}

// BookStore defines the interface for reading and updating catalog entries.
type BookStore interface {
	GetByID(id uint) (*entities.Book, error)
	Update(book *entities.Book) error
}

// EnrichmentResult contains the result of an enrichment operation.
type EnrichmentResult struct {
	Book          *entities.Book
	FieldsUpdated []string
}

// Enricher fills in missing catalog fields (description, cover URL) from an
// external metadata source. Fields an uploader set by hand are never
// overwritten.
type Enricher struct {
	provider Provider
	books    BookStore
}

func NewEnricher(provider Provider, books BookStore) *Enricher {
	return &Enricher{
		provider: provider,
		books:    books,
	}
}

// EnrichBook fetches metadata for a book by title and author and fills in
// any empty description or cover URL.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (*EnrichmentResult, error) {
	book, err := e.books.GetByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", bookID, err)
	}

	result := &EnrichmentResult{Book: book}

	if book.Description != "" && book.CoverURL != "" {
		return result, nil
	}

	md, err := e.provider.SearchByTitle(ctx, book.Title, book.Author)
	if err != nil {
		return nil, fmt.Errorf("search metadata for %q: %w", book.Title, err)
	}

	if book.Description == "" && md.Description != "" {
		book.Description = md.Description
		result.FieldsUpdated = append(result.FieldsUpdated, "description")
	}
	if book.CoverURL == "" && md.CoverURL != "" {
		book.CoverURL = md.CoverURL
		result.FieldsUpdated = append(result.FieldsUpdated, "cover_url")
	}

	if len(result.FieldsUpdated) == 0 {
		return result, nil
	}

	if err := e.books.Update(book); err != nil {
		return nil, fmt.Errorf("update book %d: %w", bookID, err)
	}

	return result, nil
}
