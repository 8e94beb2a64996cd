package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mujeebkhan77/digital-Library/internal/audit"
	"github.com/mujeebkhan77/digital-Library/internal/auth"
	"github.com/mujeebkhan77/digital-Library/internal/checkout"
	"github.com/mujeebkhan77/digital-Library/internal/config"
	"github.com/mujeebkhan77/digital-Library/internal/covers"
	"github.com/mujeebkhan77/digital-Library/internal/database"
	auditRepo "github.com/mujeebkhan77/digital-Library/internal/database/audit"
	booksRepo "github.com/mujeebkhan77/digital-Library/internal/database/books"
	favouritesRepo "github.com/mujeebkhan77/digital-Library/internal/database/favourites"
	historyRepo "github.com/mujeebkhan77/digital-Library/internal/database/history"
	purchasesRepo "github.com/mujeebkhan77/digital-Library/internal/database/purchases"
	reviewsRepo "github.com/mujeebkhan77/digital-Library/internal/database/reviews"
	"github.com/mujeebkhan77/digital-Library/internal/entitlement"
	http_controllers "github.com/mujeebkhan77/digital-Library/internal/http"
	"github.com/mujeebkhan77/digital-Library/internal/metadata"
	"github.com/mujeebkhan77/digital-Library/internal/reader"
	"github.com/mujeebkhan77/digital-Library/internal/scheduler"
	"github.com/mujeebkhan77/digital-Library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	log.Printf("Checking media directory: %s", cfg.Storage.MediaDir)

	if cfg.Storage.MediaDir == "" {
		log.Fatalf("Media directory is not set")
		return
	}
	if err := os.MkdirAll(cfg.Storage.MediaDir, 0755); err != nil {
		log.Fatalf("Media directory %s is not usable: %v", cfg.Storage.MediaDir, err)
		return
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Digital Library v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	books := booksRepo.NewRepository(db.DB)
	purchases := purchasesRepo.NewRepository(db.DB)
	history := historyRepo.NewRepository(db.DB)
	reviews := reviewsRepo.NewRepository(db.DB)
	favourites := favouritesRepo.NewRepository(db.DB)

	// Audit trail: database events plus disk snapshots of verified
	// provider payloads
	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	auditor := audit.NewAuditor(cfg.Audit.PayloadDir)

	// Entitlement evaluation and the document gateway
	evaluator := entitlement.NewEvaluator(purchases)
	gateway := reader.NewGateway(books, history, evaluator, cfg.Storage.MediaDir)

	// Payment provider
	var provider checkout.Provider
	if cfg.Stripe.SecretKey != "" {
		provider = checkout.NewStripeProvider(cfg.Stripe.SecretKey)
		log.Printf("Stripe payments enabled")
	} else {
		log.Printf("WARNING: Stripe secret key is not set. Paid book checkout will be disabled. Set 'STRIPE_SECRET_KEY' environment variable to enable.")
	}
	orchestrator := checkout.NewOrchestrator(provider, books, purchases, checkout.Config{
		PriceCents: cfg.Stripe.PriceCents,
		Currency:   cfg.Stripe.Currency,
		BaseURL:    cfg.HTTP.BaseURL,
	})

	// Create cover cache for locally caching book covers
	coverCacheDir := cfg.Storage.CoversDir
	if coverCacheDir == "" {
		coverCacheDir = filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	}
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
	} else {
		log.Printf("Cover cache initialized at %s", coverCacheDir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.DefaultConfig()
		if cfg.Tasks.Workers > 0 {
			taskCfg.Workers = cfg.Tasks.Workers
		}
		if cfg.Tasks.ReleaseAfter > 0 {
			taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		}
		if cfg.Tasks.CleanupInterval > 0 {
			taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		enricher := metadata.NewEnricher(metadata.NewOpenLibraryClient(), books)
		taskClient.Register(
			tasks.NewFetchCoverQueue(coverCache),
			tasks.NewEnrichBookQueue(enricher),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Catalog stats scheduler
	var statsScheduler *scheduler.StatsScheduler
	if cfg.Stats.Enabled {
		statsScheduler = scheduler.NewStatsScheduler(db.DB, cfg.Stats.Schedule)
		if err := statsScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start stats scheduler: %v", err)
		}
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var loginLimiter *auth.LoginRateLimiter
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		// Create auth service
		authService = auth.NewService(db.DB, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		// Initialize session manager
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		// Create auth middleware
		authMiddleware = auth.NewMiddleware(authService, sessionManager, true)

		loginLimiter = auth.NewLoginRateLimiter(cfg.Auth.MaxLoginAttempts, cfg.Auth.RateLimitWindow)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			// Generate a secret
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		// Check if setup is needed
		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users found. Run 'create-admin' to create an administrator account.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:             db,
		AuditService:         auditService,
		Auditor:              auditor,
		ReaderGateway:        gateway,
		BookStore:            books,
		AdminBookStore:       books,
		ReviewStore:          reviews,
		ReviewReader:         reviews,
		FavouritesStore:      favourites,
		HistoryStore:         history,
		PurchaseReader:       purchases,
		CheckoutOrchestrator: orchestrator,
		AuthService:          authService,
		AuthMiddleware:       authMiddleware,
		SessionManager:       sessionManager,
		LoginLimiter:         loginLimiter,
		CSRFSecret:           csrfSecret,
		SecureCookies:        cfg.Auth.SecureCookies,
		CoverCache:           coverCache,
		TaskClient:           taskClient,
		DemoMode:             cfg.Demo.Enabled,
		Version:              version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if statsScheduler != nil {
			statsScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
