package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mujeebkhan77/digital-Library/internal/covers"
)

// CoversController serves book cover images out of the local cache.
type CoversController struct {
	cache *covers.Cache
	books BookStore
}

func NewCoversController(cache *covers.Cache, books BookStore) *CoversController {
	return &CoversController{
		cache: cache,
		books: books,
	}
}

// GetCover serves a cached book cover image.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetApprovedByID(id)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if book.CoverURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	// The cover is usually already cached by the fetch task; a cache
	// miss downloads it inline. Upstream trouble falls back to a
	// redirect so the catalog page still shows something.
	cachePath, err := cc.cache.Ensure(c.Request.Context(), id, book.CoverURL)
	if err != nil || cachePath == "" {
		c.Redirect(http.StatusTemporaryRedirect, book.CoverURL)
		return
	}

	c.File(cachePath)
}
