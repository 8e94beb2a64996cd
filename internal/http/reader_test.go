package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujeebkhan77/digital-Library/internal/audit"
	auditRepo "github.com/mujeebkhan77/digital-Library/internal/database/audit"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
	"github.com/mujeebkhan77/digital-Library/internal/entitlement"
	"github.com/mujeebkhan77/digital-Library/internal/reader"
)

const testPDFContent = "%PDF-1.4 test document"

type readerFixture struct {
	env          *testEnv
	auditService *audit.Service
	mediaDir     string
	controller   *ReaderController
}

func newReaderFixture(t *testing.T) *readerFixture {
	t.Helper()
	env := newTestEnv(t)

	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "book.pdf"), []byte(testPDFContent), 0644))

	evaluator := entitlement.NewEvaluator(env.purchases)
	gateway := reader.NewGateway(env.books, env.history, evaluator, mediaDir)
	auditService := audit.NewService(auditRepo.NewRepository(env.db.DB))

	return &readerFixture{
		env:          env,
		auditService: auditService,
		mediaDir:     mediaDir,
		controller:   NewReaderController(gateway, auditService),
	}
}

func (f *readerFixture) router(user *entities.User) *gin.Engine {
	router := gin.New()
	router.Use(withUser(user))
	router.GET("/api/books/:id/read", f.controller.Read)
	router.GET("/api/books/:id/pdf", f.controller.ServePDF)
	return router
}

func (f *readerFixture) seedBook(t *testing.T, bookType entities.BookType) *entities.Book {
	return f.env.createBook(t, &entities.Book{
		Title:      "Pride and Prejudice",
		Author:     "Jane Austen",
		Category:   "Literature",
		Type:       bookType,
		PDFPath:    "book.pdf",
		IsApproved: true,
	})
}

func TestReaderController_Read(t *testing.T) {
	t.Run("free book yields pdf url", func(t *testing.T) {
		f := newReaderFixture(t)
		book := f.seedBook(t, entities.BookTypeFree)
		user := f.env.createUser(t, "alice", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/read", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			PDFURL *string `json:"pdf_url"`
			Error  *string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.PDFURL)
		assert.Equal(t, "/api/books/1/pdf", *resp.PDFURL)
		assert.Nil(t, resp.Error)
		_ = book
	})

	t.Run("anonymous caller gets inline error", func(t *testing.T) {
		f := newReaderFixture(t)
		f.seedBook(t, entities.BookTypeFree)
		router := f.router(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/read", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			PDFURL *string `json:"pdf_url"`
			Error  *string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.PDFURL)
		require.NotNil(t, resp.Error)
		assert.Contains(t, *resp.Error, "login required")
	})

	t.Run("paid book without purchase gets inline error", func(t *testing.T) {
		f := newReaderFixture(t)
		f.seedBook(t, entities.BookTypePaid)
		user := f.env.createUser(t, "bob", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/read", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			PDFURL *string `json:"pdf_url"`
			Error  *string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.PDFURL)
		require.NotNil(t, resp.Error)
		assert.Contains(t, *resp.Error, "do not have access")
	})

	t.Run("has no side effects", func(t *testing.T) {
		f := newReaderFixture(t)
		book := f.seedBook(t, entities.BookTypeFree)
		user := f.env.createUser(t, "alice", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/read", nil))
		require.Equal(t, http.StatusOK, w.Code)

		// History belongs to the document endpoint, the view counter to
		// the detail view; the read page writes neither.
		_, err := f.env.history.Get(user.ID, book.ID)
		assert.Error(t, err)

		stored, err := f.env.books.GetByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.ViewCount)
	})

	t.Run("unknown book gets inline not found", func(t *testing.T) {
		f := newReaderFixture(t)
		user := f.env.createUser(t, "carol", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/99/read", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Error *string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "book not found", *resp.Error)
	})
}

func TestReaderController_ServePDF(t *testing.T) {
	t.Run("streams free book with protective headers", func(t *testing.T) {
		f := newReaderFixture(t)
		f.seedBook(t, entities.BookTypeFree)
		user := f.env.createUser(t, "alice", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/pdf", nil))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, testPDFContent, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="Pride and Prejudice.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-store, no-cache, must-revalidate", w.Header().Get("Cache-Control"))
		assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
		assert.Equal(t, "0", w.Header().Get("Expires"))
	})

	t.Run("records history", func(t *testing.T) {
		f := newReaderFixture(t)
		book := f.seedBook(t, entities.BookTypeFree)
		user := f.env.createUser(t, "alice", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/pdf", nil))
		require.Equal(t, http.StatusOK, w.Code)

		entry, err := f.env.history.Get(user.ID, book.ID)
		require.NoError(t, err)
		assert.False(t, entry.LastReadAt.IsZero())

		// The view counter is the detail view's; streaming leaves it alone.
		stored, err := f.env.books.GetByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.ViewCount)
	})

	t.Run("paid book without purchase denied", func(t *testing.T) {
		f := newReaderFixture(t)
		f.seedBook(t, entities.BookTypePaid)
		user := f.env.createUser(t, "bob", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/pdf", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "access denied")

		// The denial reason is preserved in the audit trail, not the response
		time.Sleep(50 * time.Millisecond)
		events, err := f.auditService.GetRecentEvents(entities.AuditEventAccess, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entities.AuditStatusDenied, events[0].Status)
	})

	t.Run("purchased paid book streams", func(t *testing.T) {
		f := newReaderFixture(t)
		book := f.seedBook(t, entities.BookTypePaid)
		user := f.env.createUser(t, "bob", entities.UserRoleUser)
		_, err := f.env.purchases.Upsert(user.ID, book.ID, "pi_test_123")
		require.NoError(t, err)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/pdf", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous caller gets 401", func(t *testing.T) {
		f := newReaderFixture(t)
		f.seedBook(t, entities.BookTypeFree)
		router := f.router(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/pdf", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		f := newReaderFixture(t)
		user := f.env.createUser(t, "alice", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/99/pdf", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing document is 404 and recorded", func(t *testing.T) {
		f := newReaderFixture(t)
		f.env.createBook(t, &entities.Book{
			Title:      "Ghost",
			Author:     "Nobody",
			Category:   "Fiction",
			Type:       entities.BookTypeFree,
			PDFPath:    "missing.pdf",
			IsApproved: true,
		})
		user := f.env.createUser(t, "alice", entities.UserRoleUser)
		router := f.router(user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/books/1/pdf", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "book document not found")

		time.Sleep(50 * time.Millisecond)
		events, err := f.auditService.GetRecentEvents(entities.AuditEventAccess, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entities.AuditStatusFailed, events[0].Status)
	})
}
