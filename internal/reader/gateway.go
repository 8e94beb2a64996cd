// Package reader serves protected book documents from durable storage.
//
// The gateway enforces a strict evaluation order before a single byte
// leaves disk: the book must exist and be approved, the caller must be
// authenticated, the entitlement check must pass, and only then is the
// file opened. Each failure mode maps to a distinct error so handlers
// and logs can tell a denied request from an operational fault.
package reader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
	"github.com/mujeebkhan77/digital-Library/internal/entitlement"
	"github.com/mujeebkhan77/digital-Library/internal/utils"
)

var (
	// ErrNotFound means the book does not exist or is not approved.
	ErrNotFound = errors.New("book not found")
	// ErrUnauthorized means the request carries no authenticated user.
	ErrUnauthorized = errors.New("authentication required")
	// ErrAssetMissing means the catalog references a file that is gone
	// from storage. An operational fault, not a client error.
	ErrAssetMissing = errors.New("book document is missing from storage")
)

// ForbiddenError means the entitlement check denied access. Reason is
// the evaluator's decision reason.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "access denied: " + e.Reason
}

// StreamError wraps filesystem faults other than a missing file.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return "failed to open book document: " + e.Err.Error()
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// BookStore supplies catalog lookups for streaming.
type BookStore interface {
	GetApprovedByID(id uint) (*entities.Book, error)
}

// HistoryStore records that a user opened a book.
type HistoryStore interface {
	RecordRead(userID, bookID uint) error
}

// Stream is an open book document ready to be copied to a response.
type Stream struct {
	io.ReadCloser
	// Filename is header-safe: quotes and line breaks are stripped.
	Filename string
	Size     int64
}

// Gateway opens book documents after access checks.
type Gateway struct {
	books     BookStore
	history   HistoryStore
	evaluator *entitlement.Evaluator
	mediaDir  string
}

func NewGateway(books BookStore, history HistoryStore, evaluator *entitlement.Evaluator, mediaDir string) *Gateway {
	return &Gateway{
		books:     books,
		history:   history,
		evaluator: evaluator,
		mediaDir:  mediaDir,
	}
}

// authorize resolves the book and runs the access checks shared by
// CheckAccess and OpenStream, in order: existence, principal,
// entitlement.
func (g *Gateway) authorize(user *entities.User, bookID uint) (*entities.Book, error) {
	book, err := g.books.GetApprovedByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}

	if user == nil {
		return nil, ErrUnauthorized
	}

	decision, err := g.evaluator.CanAccess(user, book)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate access: %w", err)
	}
	if !decision.Allowed {
		return nil, &ForbiddenError{Reason: decision.Reason}
	}
	return book, nil
}

// CheckAccess reports whether user could stream bookID right now,
// without touching the filesystem or recording anything. The read page
// uses it to surface denials before a viewer is loaded.
func (g *Gateway) CheckAccess(user *entities.User, bookID uint) error {
	book, err := g.authorize(user, bookID)
	if err != nil {
		return err
	}
	if book.PDFPath == "" {
		log.Printf("ERROR: book %d has no document path", book.ID)
		return ErrAssetMissing
	}
	return nil
}

// OpenStream opens the document for bookID on behalf of user.
//
// Recording the read in history is best effort: a failed history write
// is logged and never blocks the stream.
func (g *Gateway) OpenStream(user *entities.User, bookID uint) (*Stream, error) {
	book, err := g.authorize(user, bookID)
	if err != nil {
		return nil, err
	}

	path, err := g.resolvePath(book)
	if err != nil {
		return nil, err
	}

	// A single open avoids the stat-then-open race: the file's state at
	// open time is authoritative.
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("ERROR: book %d references missing document %s", book.ID, book.PDFPath)
			return nil, ErrAssetMissing
		}
		log.Printf("ERROR: failed to open document for book %d: %v", book.ID, err)
		return nil, &StreamError{Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &StreamError{Err: err}
	}

	if err := g.history.RecordRead(user.ID, book.ID); err != nil {
		log.Printf("Failed to record reading history for user %d, book %d: %v", user.ID, book.ID, err)
	}

	return &Stream{
		ReadCloser: f,
		Filename:   utils.HeaderSafeFilename(book.Title + ".pdf"),
		Size:       info.Size(),
	}, nil
}

// resolvePath joins the stored document path with the media directory
// and rejects anything escaping it.
func (g *Gateway) resolvePath(book *entities.Book) (string, error) {
	if book.PDFPath == "" {
		log.Printf("ERROR: book %d has no document path", book.ID)
		return "", ErrAssetMissing
	}

	root, err := filepath.Abs(g.mediaDir)
	if err != nil {
		return "", &StreamError{Err: err}
	}
	path, err := filepath.Abs(filepath.Join(root, book.PDFPath))
	if err != nil {
		return "", &StreamError{Err: err}
	}
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		log.Printf("ERROR: book %d document path escapes media dir: %s", book.ID, book.PDFPath)
		return "", ErrAssetMissing
	}
	return path, nil
}
