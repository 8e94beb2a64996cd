package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

func newReviewsRouter(env *testEnv, user *entities.User) *gin.Engine {
	router := gin.New()
	router.Use(withUser(user))
	rc := NewReviewsController(env.reviews, env.books)
	router.POST("/api/books/:id/reviews", rc.SubmitReview)
	router.GET("/api/books/:id/reviews", rc.ListReviews)
	router.DELETE("/api/reviews/:id", rc.DeleteReview)
	return router
}

func postJSON(router *gin.Engine, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReviewsController_SubmitReview(t *testing.T) {
	t.Run("creates review", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: true})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newReviewsRouter(env, user)

		w := postJSON(router, "/api/books/1/reviews", gin.H{"rating": 5, "comment": "Great"})
		require.Equal(t, http.StatusCreated, w.Code)

		reviews, err := env.reviews.ListByBook(1)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 5, reviews[0].Rating)
	})

	t.Run("resubmitting replaces the previous review", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: true})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newReviewsRouter(env, user)

		require.Equal(t, http.StatusCreated, postJSON(router, "/api/books/1/reviews", gin.H{"rating": 2}).Code)
		require.Equal(t, http.StatusCreated, postJSON(router, "/api/books/1/reviews", gin.H{"rating": 4}).Code)

		reviews, err := env.reviews.ListByBook(1)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 4, reviews[0].Rating)
	})

	t.Run("rating out of range is 400", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: true})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newReviewsRouter(env, user)

		assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/books/1/reviews", gin.H{"rating": 6}).Code)
		assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/books/1/reviews", gin.H{"rating": 0}).Code)
	})

	t.Run("unapproved book is 404", func(t *testing.T) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: false})
		user := env.createUser(t, "alice", entities.UserRoleUser)
		router := newReviewsRouter(env, user)

		assert.Equal(t, http.StatusNotFound, postJSON(router, "/api/books/1/reviews", gin.H{"rating": 3}).Code)
	})
}

func TestReviewsController_DeleteReview(t *testing.T) {
	setup := func(t *testing.T) (*testEnv, *entities.User, *entities.Review) {
		env := newTestEnv(t)
		env.createBook(t, &entities.Book{Title: "B", Author: "A", Category: "Science", IsApproved: true})
		owner := env.createUser(t, "owner", entities.UserRoleUser)
		review := &entities.Review{UserID: owner.ID, BookID: 1, Rating: 3}
		require.NoError(t, env.reviews.Upsert(review))
		return env, owner, review
	}

	t.Run("anonymous caller is 401", func(t *testing.T) {
		env, _, review := setup(t)
		router := newReviewsRouter(env, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/1", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		_, err := env.reviews.GetByID(review.ID)
		assert.NoError(t, err)
	})

	t.Run("owner deletes own review", func(t *testing.T) {
		env, owner, review := setup(t)
		router := newReviewsRouter(env, owner)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/1", nil))
		require.Equal(t, http.StatusOK, w.Code)

		_, err := env.reviews.GetByID(review.ID)
		assert.Error(t, err)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		env, _, _ := setup(t)
		stranger := env.createUser(t, "stranger", entities.UserRoleUser)
		router := newReviewsRouter(env, stranger)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/1", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin deletes any review", func(t *testing.T) {
		env, _, _ := setup(t)
		admin := env.createUser(t, "admin", entities.UserRoleAdmin)
		router := newReviewsRouter(env, admin)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown review is 404", func(t *testing.T) {
		env, owner, _ := setup(t)
		router := newReviewsRouter(env, owner)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reviews/99", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
