package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mujeebkhan77/digital-Library/internal/audit"
	"github.com/mujeebkhan77/digital-Library/internal/reader"
)

// ReaderController serves the in-browser reading flow: a render
// endpoint that hands the client a capability URL, and the document
// endpoint that actually streams bytes.
type ReaderController struct {
	gateway *reader.Gateway
	audit   *audit.Service
}

func NewReaderController(gateway *reader.Gateway, auditService *audit.Service) *ReaderController {
	return &ReaderController{gateway: gateway, audit: auditService}
}

// Read returns the reader payload for a book. The response is always
// HTTP 200; access problems are carried inline so the client can show
// them inside the reader page.
// GET /api/books/:id/read
func (rc *ReaderController) Read(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user := GetUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"pdf_url": nil, "error": "login required to read this book"})
		return
	}

	// The same checks the document endpoint makes, minus the side
	// effects: no file open, no history row, so the client learns about
	// denials before loading a viewer.
	if err := rc.gateway.CheckAccess(user, id); err != nil {
		c.JSON(http.StatusOK, gin.H{"pdf_url": nil, "error": readErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pdf_url": fmt.Sprintf("/api/books/%d/pdf", id),
		"error":   nil,
	})
}

func readErrorMessage(err error) string {
	var forbidden *reader.ForbiddenError
	switch {
	case errors.Is(err, reader.ErrNotFound):
		return "book not found"
	case errors.Is(err, reader.ErrUnauthorized):
		return "login required to read this book"
	case errors.As(err, &forbidden):
		return "you do not have access to this book"
	case errors.Is(err, reader.ErrAssetMissing):
		return "this book is temporarily unavailable"
	default:
		return "this book is temporarily unavailable"
	}
}

// ServePDF streams the book document with anti-exfiltration headers.
// GET /api/books/:id/pdf
func (rc *ReaderController) ServePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user := GetUser(c)
	stream, err := rc.gateway.OpenStream(user, id)
	if err != nil {
		rc.respondStreamError(c, id, err)
		return
	}
	defer stream.Close()

	if rc.audit != nil {
		rc.audit.LogAccess(user.ID, id, c.ClientIP(), true, "granted")
	}

	// Inline disposition keeps browsers rendering instead of downloading;
	// the filename is already header-safe.
	headers := map[string]string{
		"Content-Disposition":    fmt.Sprintf(`inline; filename="%s"`, stream.Filename),
		"X-Content-Type-Options": "nosniff",
		// Allow our own reader page to embed the document.
		"X-Frame-Options": "SAMEORIGIN",
		"Cache-Control":   "no-store, no-cache, must-revalidate",
		"Pragma":          "no-cache",
		"Expires":         "0",
	}

	c.DataFromReader(http.StatusOK, stream.Size, "application/pdf", stream, headers)
}

func (rc *ReaderController) respondStreamError(c *gin.Context, bookID uint, err error) {
	user := GetUser(c)
	userID := uint(0)
	if user != nil {
		userID = user.ID
	}

	var forbidden *reader.ForbiddenError
	switch {
	case errors.Is(err, reader.ErrNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, reader.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "authentication required")
	case errors.As(err, &forbidden):
		if rc.audit != nil {
			rc.audit.LogAccess(userID, bookID, c.ClientIP(), false, forbidden.Reason)
		}
		respondError(c, http.StatusForbidden, "access denied")
	case errors.Is(err, reader.ErrAssetMissing):
		if rc.audit != nil {
			rc.audit.LogAccessError(userID, bookID, c.ClientIP(), err)
		}
		respondNotFound(c, "book document")
	default:
		if rc.audit != nil {
			rc.audit.LogAccessError(userID, bookID, c.ClientIP(), err)
		}
		respondInternalError(c, err, "serve pdf")
	}
}
