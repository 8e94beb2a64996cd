package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// HistoryStore defines read operations over reading history.
type HistoryStore interface {
	ListByUser(userID uint, limit int) ([]entities.ReadingHistory, error)
}

type HistoryController struct {
	store HistoryStore
}

func NewHistoryController(store HistoryStore) *HistoryController {
	return &HistoryController{store: store}
}

// ListHistory returns the caller's reading history, most recent first.
// GET /api/history
func (hc *HistoryController) ListHistory(c *gin.Context) {
	limit, _ := parsePagination(c, 50, 200)

	history, err := hc.store.ListByUser(GetUserID(c), limit)
	if err != nil {
		respondInternalError(c, err, "list history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
