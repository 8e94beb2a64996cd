package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/audit"
	"github.com/mujeebkhan77/digital-Library/internal/covers"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
	"github.com/mujeebkhan77/digital-Library/internal/tasks"
)

// AdminBookStore defines the write operations behind catalog administration.
type AdminBookStore interface {
	GetByID(id uint) (*entities.Book, error)
	ListAll(approved *bool) ([]entities.Book, error)
	Create(book *entities.Book) error
	Update(book *entities.Book) error
	Delete(id uint) error
	Approve(id uint) error
}

// AdminController exposes catalog management. Every route behind it is
// wrapped in the admin role middleware.
type AdminController struct {
	store      AdminBookStore
	audit      *audit.Service
	taskClient *tasks.Client
	covers     *covers.Cache
}

func NewAdminController(store AdminBookStore, auditService *audit.Service, taskClient *tasks.Client, coverCache *covers.Cache) *AdminController {
	return &AdminController{
		store:      store,
		audit:      auditService,
		taskClient: taskClient,
		covers:     coverCache,
	}
}

type bookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Type        string `json:"type"`
	CoverURL    string `json:"cover_url"`
	PDFPath     string `json:"pdf_path"`
	IsApproved  bool   `json:"is_approved"`
}

func (r *bookRequest) validate() (entities.BookType, string, bool) {
	if !entities.IsValidCategory(r.Category) {
		return "", "unknown category", false
	}
	bookType := entities.BookTypeFree
	if r.Type != "" {
		if r.Type != string(entities.BookTypeFree) && r.Type != string(entities.BookTypePaid) {
			return "", "type must be 'free' or 'paid'", false
		}
		bookType = entities.BookType(r.Type)
	}
	return bookType, "", true
}

// CreateBook adds a catalog entry.
// POST /api/admin/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author and category are required")
		return
	}
	bookType, msg, ok := req.validate()
	if !ok {
		respondBadRequest(c, msg)
		return
	}

	book := &entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		Type:        bookType,
		CoverURL:    req.CoverURL,
		PDFPath:     req.PDFPath,
		IsApproved:  req.IsApproved,
	}
	if err := ac.store.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	ac.enqueueCoverFetch(book)
	ac.enqueueEnrichment(book)
	if ac.audit != nil {
		ac.audit.LogAdmin(GetUserID(c), "book_create", "Created book: "+book.Title, book.ID)
	}

	respondCreated(c, gin.H{"book": book})
}

// UpdateBook replaces the editable fields of a catalog entry.
// PUT /api/admin/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author and category are required")
		return
	}
	bookType, msg, okReq := req.validate()
	if !okReq {
		respondBadRequest(c, msg)
		return
	}

	coverChanged := req.CoverURL != book.CoverURL

	book.Title = req.Title
	book.Author = req.Author
	book.Description = req.Description
	book.Category = req.Category
	book.Type = bookType
	book.CoverURL = req.CoverURL
	if req.PDFPath != "" {
		book.PDFPath = req.PDFPath
	}
	book.IsApproved = req.IsApproved

	if err := ac.store.Update(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	if coverChanged {
		ac.invalidateCover(book.ID)
		ac.enqueueCoverFetch(book)
	}
	if ac.audit != nil {
		ac.audit.LogAdmin(GetUserID(c), "book_update", "Updated book: "+book.Title, book.ID)
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// DeleteBook removes a catalog entry and its reviews, favourites,
// history and purchases.
// DELETE /api/admin/books/:id
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	if err := ac.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	ac.invalidateCover(id)
	if ac.audit != nil {
		ac.audit.LogAdmin(GetUserID(c), "book_delete", "Deleted book: "+book.Title, id)
	}
	respondSuccess(c, "book deleted")
}

// ListBooks returns every catalog entry, optionally filtered by
// approval state.
// GET /api/admin/books?approved=true|false
func (ac *AdminController) ListBooks(c *gin.Context) {
	var approved *bool
	if v := c.Query("approved"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondBadRequest(c, "approved must be true or false")
			return
		}
		approved = &parsed
	}

	results, err := ac.store.ListAll(approved)
	if err != nil {
		respondInternalError(c, err, "list all books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": results})
}

// ApproveBook publishes a pending book.
// POST /api/admin/books/:id/approve
func (ac *AdminController) ApproveBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "approve book")
		return
	}

	if err := ac.store.Approve(id); err != nil {
		respondInternalError(c, err, "approve book")
		return
	}

	if ac.audit != nil {
		ac.audit.LogAdmin(GetUserID(c), "book_approve", "Approved book: "+book.Title, id)
	}
	respondSuccess(c, "book approved")
}

// AuditEvents returns the newest audit trail entries.
// GET /api/admin/audit?type=&limit=
func (ac *AdminController) AuditEvents(c *gin.Context) {
	if ac.audit == nil {
		respondError(c, http.StatusServiceUnavailable, "audit trail not available")
		return
	}
	limit, _ := parsePagination(c, 100, 500)

	events, err := ac.audit.GetRecentEvents(entities.AuditEventType(c.Query("type")), limit)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (ac *AdminController) enqueueCoverFetch(book *entities.Book) {
	if ac.taskClient == nil || book.CoverURL == "" {
		return
	}
	_, err := ac.taskClient.Add(tasks.FetchCoverTask{
		BookID:   book.ID,
		CoverURL: book.CoverURL,
	}).Save()
	if err != nil {
		log.Printf("Failed to enqueue cover fetch for book %d: %v", book.ID, err)
	}
}

// invalidateCover drops stale cached covers. Best effort.
func (ac *AdminController) invalidateCover(bookID uint) {
	if ac.covers == nil {
		return
	}
	if err := ac.covers.Invalidate(bookID); err != nil {
		log.Printf("Failed to invalidate cover cache for book %d: %v", bookID, err)
	}
}

// enqueueEnrichment schedules a metadata lookup for entries uploaded without
// a description or cover.
func (ac *AdminController) enqueueEnrichment(book *entities.Book) {
	if ac.taskClient == nil {
		return
	}
	if book.Description != "" && book.CoverURL != "" {
		return
	}
	_, err := ac.taskClient.Add(tasks.EnrichBookTask{BookID: book.ID}).Save()
	if err != nil {
		log.Printf("Failed to enqueue enrichment for book %d: %v", book.ID, err)
	}
}
