package http

import (
	"github.com/mujeebkhan77/digital-Library/internal/audit"
	"github.com/mujeebkhan77/digital-Library/internal/auth"
	"github.com/mujeebkhan77/digital-Library/internal/checkout"
	"github.com/mujeebkhan77/digital-Library/internal/covers"
	"github.com/mujeebkhan77/digital-Library/internal/database"
	"github.com/mujeebkhan77/digital-Library/internal/reader"
	"github.com/mujeebkhan77/digital-Library/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	AuditService  *audit.Service
	Auditor       *audit.Auditor
	ReaderGateway *reader.Gateway

	// Catalog stores
	BookStore       BookStore
	AdminBookStore  AdminBookStore
	ReviewStore     ReviewStore
	ReviewReader    ReviewReader
	FavouritesStore FavouritesStore
	HistoryStore    HistoryStore
	PurchaseReader  PurchaseReader

	// Payments
	CheckoutOrchestrator *checkout.Orchestrator

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	LoginLimiter   *auth.LoginRateLimiter
	CSRFSecret     []byte
	SecureCookies  bool

	// Cover caching
	CoverCache *covers.Cache

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Demo deployments reject catalog mutations
	DemoMode bool

	// Application info
	Version string
}
