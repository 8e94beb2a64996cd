package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

func newFavouritesRouter(env *testEnv, user *entities.User) *gin.Engine {
	router := gin.New()
	router.Use(withUser(user))
	fc := NewFavouritesController(env.favourites, env.books)
	router.POST("/api/books/:id/favourite", fc.AddFavourite)
	router.DELETE("/api/books/:id/favourite", fc.RemoveFavourite)
	router.GET("/api/favourites", fc.ListFavourites)

	hc := NewHistoryController(env.history)
	router.GET("/api/history", hc.ListHistory)
	return router
}

func TestFavouritesController(t *testing.T) {
	t.Run("add list remove roundtrip", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: true})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newFavouritesRouter(env, user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books/1/favourite", nil))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/favourites", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Favourites []entities.Favourite `json:"favourites"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Favourites, 1)
		assert.Equal(t, uint(1), resp.Favourites[0].BookID)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/books/1/favourite", nil))
		require.Equal(t, http.StatusOK, w.Code)

		exists, err := env.favourites.Exists(user.ID, 1)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("adding twice keeps one row", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: true})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newFavouritesRouter(env, user)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books/1/favourite", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}

		favourites, err := env.favourites.ListByUser(user.ID)
		require.NoError(t, err)
		assert.Len(t, favourites, 1)
	})

	t.Run("unapproved book cannot be favourited", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: false})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newFavouritesRouter(env, user)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/books/1/favourite", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHistoryController_ListHistory(t *testing.T) {
	env := newTestEnv(t)
	env.createBook(t, &entities.Book{Title: "First", Author: "A", Category: "Science", IsApproved: true})
	env.createBook(t, &entities.Book{Title: "Second", Author: "B", Category: "Science", IsApproved: true})
	user := env.createUser(t, "alice", entities.UserRoleUser)
	require.NoError(t, env.history.RecordRead(user.ID, 1))
	require.NoError(t, env.history.RecordRead(user.ID, 2))
	router := newFavouritesRouter(env, user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History []entities.ReadingHistory `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.History, 2)
}
