package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mujeebkhan77/digital-Library/internal/auth"
	"github.com/mujeebkhan77/digital-Library/internal/demo"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeaders())

	// Block mutations when running as a public demo
	if cfg.DemoMode {
		router.Use(demo.NewMiddleware(true).Handler())
	}

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.NewCSRFMiddleware(auth.CSRFConfig{
			AuthKey: cfg.CSRFSecret,
			Secure:  cfg.SecureCookies,
		}))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Resolve the session user, then gate the protected surface
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.LoadUser())
		router.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter)
		router.POST("/api/auth/register", authController.Register)
		router.POST("/api/auth/login", authController.Login)
		router.POST("/api/auth/logout", authController.Logout)
		router.GET("/api/auth/me", authController.Me)
		router.GET("/api/csrf", auth.CSRFTokenHandler())
	}

	// Catalog endpoints
	booksController := NewBooksController(cfg.BookStore, cfg.ReviewReader)
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/featured", booksController.Featured)
	router.GET("/api/books/recent", booksController.Recent)
	router.GET("/api/books/categories", booksController.Categories)
	router.GET("/api/books/:id", booksController.GetBook)

	// Reading endpoints
	if cfg.ReaderGateway != nil {
		readerController := NewReaderController(cfg.ReaderGateway, cfg.AuditService)
		router.GET("/api/books/:id/read", readerController.Read)
		router.GET("/api/books/:id/pdf", readerController.ServePDF)
	}

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.BookStore)
		router.GET("/api/books/:id/cover", coversController.GetCover)
	}

	// Review endpoints
	reviewsController := NewReviewsController(cfg.ReviewStore, cfg.BookStore)
	router.GET("/api/books/:id/reviews", reviewsController.ListReviews)
	router.POST("/api/books/:id/reviews", reviewsController.SubmitReview)
	router.DELETE("/api/reviews/:id", reviewsController.DeleteReview)

	// Favourites endpoints
	favouritesController := NewFavouritesController(cfg.FavouritesStore, cfg.BookStore)
	router.POST("/api/books/:id/favourite", favouritesController.AddFavourite)
	router.DELETE("/api/books/:id/favourite", favouritesController.RemoveFavourite)
	router.GET("/api/favourites", favouritesController.ListFavourites)

	// Reading history endpoint
	historyController := NewHistoryController(cfg.HistoryStore)
	router.GET("/api/history", historyController.ListHistory)

	// Payment endpoints
	if cfg.CheckoutOrchestrator != nil {
		paymentsController := NewPaymentsController(
			cfg.CheckoutOrchestrator,
			cfg.PurchaseReader,
			cfg.SessionManager,
			cfg.AuditService,
			cfg.Auditor,
		)
		router.POST("/api/books/:id/checkout", paymentsController.Checkout)
		router.GET("/api/payments/success", paymentsController.Success)
		router.GET("/api/payments/cancelled", paymentsController.Cancelled)
		router.GET("/api/purchases", paymentsController.Purchased)
	}

	// Admin endpoints, gated on the admin role
	adminController := NewAdminController(cfg.AdminBookStore, cfg.AuditService, cfg.TaskClient, cfg.CoverCache)
	adminRoutes := router.Group("/api/admin")
	if cfg.AuthMiddleware != nil {
		adminRoutes.Use(cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin))
	}
	adminRoutes.GET("/books", adminController.ListBooks)
	adminRoutes.POST("/books", adminController.CreateBook)
	adminRoutes.PUT("/books/:id", adminController.UpdateBook)
	adminRoutes.DELETE("/books/:id", adminController.DeleteBook)
	adminRoutes.POST("/books/:id/approve", adminController.ApproveBook)
	adminRoutes.GET("/audit", adminController.AuditEvents)

	return router
}
