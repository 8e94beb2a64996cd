package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// FavouritesStore defines database operations for favourites management.
type FavouritesStore interface {
	Add(userID, bookID uint) error
	Remove(userID, bookID uint) error
	Exists(userID, bookID uint) (bool, error)
	ListByUser(userID uint) ([]entities.Favourite, error)
}

type FavouritesController struct {
	store FavouritesStore
	books BookStore
}

func NewFavouritesController(store FavouritesStore, books BookStore) *FavouritesController {
	return &FavouritesController{store: store, books: books}
}

// AddFavourite marks a book as favourite. Adding twice is a no-op.
// POST /api/books/:id/favourite
func (fc *FavouritesController) AddFavourite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := fc.books.GetApprovedByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "add favourite")
		return
	}

	if err := fc.store.Add(GetUserID(c), id); err != nil {
		respondInternalError(c, err, "add favourite")
		return
	}
	respondSuccess(c, "favourite added")
}

// RemoveFavourite removes a book from favourites.
// DELETE /api/books/:id/favourite
func (fc *FavouritesController) RemoveFavourite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := fc.store.Remove(GetUserID(c), id); err != nil {
		respondInternalError(c, err, "remove favourite")
		return
	}
	respondSuccess(c, "favourite removed")
}

// ListFavourites returns the caller's favourite books.
// GET /api/favourites
func (fc *FavouritesController) ListFavourites(c *gin.Context) {
	favourites, err := fc.store.ListByUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list favourites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favourites": favourites})
}
