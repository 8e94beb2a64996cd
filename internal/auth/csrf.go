package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFConfig holds configuration for CSRF protection.
type CSRFConfig struct {
	AuthKey []byte
	Secure  bool
}

// NewCSRFMiddleware returns a Gin middleware applying gorilla/csrf
// protection to state-changing requests. The token is exposed to API
// clients on every response via the X-CSRF-Token header.
func NewCSRFMiddleware(cfg CSRFConfig) gin.HandlerFunc {
	protect := csrf.Protect(
		cfg.AuthKey,
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error": "CSRF token invalid or missing"}`))
		})),
	)

	return func(c *gin.Context) {
		var csrfHandled bool
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			csrfHandled = true
			c.Request = r
			c.Writer.Header().Set("X-CSRF-Token", csrf.Token(r))
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)
		if !csrfHandled {
			c.Abort()
		}
	}
}

// CSRFTokenHandler returns the current CSRF token so API clients can
// bootstrap before their first state-changing request.
func CSRFTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"csrf_token": csrf.Token(c.Request),
		})
	}
}
