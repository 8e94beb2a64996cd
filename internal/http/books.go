package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/database/books"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// BookStore defines catalog read operations.
type BookStore interface {
	GetApprovedByID(id uint) (*entities.Book, error)
	ListApproved(f books.Filter) ([]entities.Book, int64, error)
	ListFeatured(limit int) ([]entities.Book, error)
	ListRecent(limit int) ([]entities.Book, error)
	ApprovedAuthors() ([]string, error)
	IncrementViewCount(id uint) error
}

// ReviewReader supplies the reviews shown on a book's detail payload.
type ReviewReader interface {
	ListByBook(bookID uint) ([]entities.Review, error)
}

type BooksController struct {
	store   BookStore
	reviews ReviewReader
}

func NewBooksController(store BookStore, reviews ReviewReader) *BooksController {
	return &BooksController{store: store, reviews: reviews}
}

// ListBooks returns the approved catalog with optional filters.
// GET /api/books?search=&category=&author=&type=&limit=&offset=
func (bc *BooksController) ListBooks(c *gin.Context) {
	limit, offset := parsePagination(c, 24, 100)

	bookType := c.Query("type")
	if bookType != "" && bookType != string(entities.BookTypeFree) && bookType != string(entities.BookTypePaid) {
		respondBadRequest(c, "type must be 'free' or 'paid'")
		return
	}

	filter := books.Filter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
		Type:     entities.BookType(bookType),
		Limit:    limit,
		Offset:   offset,
	}

	results, total, err := bc.store.ListApproved(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    results,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(results)) < total,
	})
}

// GetBook returns a single approved book with its reviews.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetApprovedByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	reviews, err := bc.reviews.ListByBook(book.ID)
	if err != nil {
		respondInternalError(c, err, "list book reviews")
		return
	}

	// Detail views drive the counter; streaming does not touch it. A
	// failed bump never blocks the response.
	if err := bc.store.IncrementViewCount(book.ID); err != nil {
		log.Printf("Failed to increment view count for book %d: %v", book.ID, err)
	} else {
		book.ViewCount++
	}

	c.JSON(http.StatusOK, gin.H{
		"book":    book,
		"reviews": reviews,
	})
}

// Featured returns the most viewed approved books.
// GET /api/books/featured
func (bc *BooksController) Featured(c *gin.Context) {
	limit, _ := parsePagination(c, 8, 50)

	results, err := bc.store.ListFeatured(limit)
	if err != nil {
		respondInternalError(c, err, "featured books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": results})
}

// Recent returns the newest approved books.
// GET /api/books/recent
func (bc *BooksController) Recent(c *gin.Context) {
	limit, _ := parsePagination(c, 8, 50)

	results, err := bc.store.ListRecent(limit)
	if err != nil {
		respondInternalError(c, err, "recent books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": results})
}

// Categories returns the fixed category list together with the authors
// present in the approved catalog, for filter dropdowns.
// GET /api/books/categories
func (bc *BooksController) Categories(c *gin.Context) {
	authors, err := bc.store.ApprovedAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": entities.BookCategories,
		"authors":    authors,
	})
}
