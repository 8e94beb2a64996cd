package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// ReviewStore defines database operations for reviews.
type ReviewStore interface {
	Upsert(review *entities.Review) error
	GetByID(id uint) (*entities.Review, error)
	ListByBook(bookID uint) ([]entities.Review, error)
	Delete(id uint) error
}

type ReviewsController struct {
	store ReviewStore
	books BookStore
}

func NewReviewsController(store ReviewStore, books BookStore) *ReviewsController {
	return &ReviewsController{store: store, books: books}
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// SubmitReview creates or replaces the caller's review of a book.
// One review per user per book; resubmitting overwrites.
// POST /api/books/:id/reviews
func (rc *ReviewsController) SubmitReview(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}
	if req.Rating < entities.MinRating || req.Rating > entities.MaxRating {
		respondBadRequest(c, fmt.Sprintf("rating must be between %d and %d", entities.MinRating, entities.MaxRating))
		return
	}

	if _, err := rc.books.GetApprovedByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "submit review")
		return
	}

	review := &entities.Review{
		UserID:  GetUserID(c),
		BookID:  bookID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := rc.store.Upsert(review); err != nil {
		respondInternalError(c, err, "submit review")
		return
	}

	respondCreated(c, gin.H{"review": review})
}

// ListReviews returns all reviews of a book.
// GET /api/books/:id/reviews
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := rc.store.ListByBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// DeleteReview removes the caller's own review. Admins may remove any.
// DELETE /api/reviews/:id
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := rc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "delete review")
		return
	}

	user := GetUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	if review.UserID != user.ID && !user.IsAdmin() {
		respondError(c, http.StatusForbidden, "cannot delete another user's review")
		return
	}

	if err := rc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review deleted")
}
