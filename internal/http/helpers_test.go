package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujeebkhan77/digital-Library/internal/auth"
	"github.com/mujeebkhan77/digital-Library/internal/database"
	booksRepo "github.com/mujeebkhan77/digital-Library/internal/database/books"
	favouritesRepo "github.com/mujeebkhan77/digital-Library/internal/database/favourites"
	historyRepo "github.com/mujeebkhan77/digital-Library/internal/database/history"
	purchasesRepo "github.com/mujeebkhan77/digital-Library/internal/database/purchases"
	reviewsRepo "github.com/mujeebkhan77/digital-Library/internal/database/reviews"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// testEnv bundles an in-memory database with its repositories for
// controller tests.
type testEnv struct {
	db         *database.Database
	books      *booksRepo.Repository
	reviews    *reviewsRepo.Repository
	favourites *favouritesRepo.Repository
	history    *historyRepo.Repository
	purchases  *purchasesRepo.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testEnv{
		db:         db,
		books:      booksRepo.NewRepository(db.DB),
		reviews:    reviewsRepo.NewRepository(db.DB),
		favourites: favouritesRepo.NewRepository(db.DB),
		history:    historyRepo.NewRepository(db.DB),
		purchases:  purchasesRepo.NewRepository(db.DB),
	}
}

// withUser injects an authenticated user into the request context, standing
// in for the session middleware.
func withUser(user *entities.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(auth.ContextKeyUser, user)
		}
		c.Next()
	}
}

func (e *testEnv) createBook(t *testing.T, book *entities.Book) *entities.Book {
	t.Helper()
	require.NoError(t, e.books.Create(book))
	return book
}

func (e *testEnv) createUser(t *testing.T, username string, role entities.UserRole) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, e.db.DB.Create(user).Error)
	return user
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 24, 0},
		{"explicit values", "limit=10&offset=40", 10, 40},
		{"limit above max falls back", "limit=500", 24, 0},
		{"zero limit falls back", "limit=0", 24, 0},
		{"negative offset ignored", "offset=-5", 24, 0},
		{"garbage ignored", "limit=abc&offset=xyz", 24, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			limit, offset := parsePagination(c, 24, 100)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	t.Run("valid id", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: "42"}}

		id, ok := parseIDParam(c, "id")
		assert.True(t, ok)
		assert.Equal(t, uint(42), id)
	})

	t.Run("non-numeric id responds 400", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		_, ok := parseIDParam(c, "id")
		assert.False(t, ok)
		assert.Equal(t, 400, w.Code)
	})

	t.Run("negative id responds 400", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: "-1"}}

		_, ok := parseIDParam(c, "id")
		assert.False(t, ok)
		assert.Equal(t, 400, w.Code)
	})
}
