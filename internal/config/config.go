package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (tests, local dev)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		Stripe
		Auth
		Audit
		Tasks
		Stats
		Demo
	}

	HTTP struct {
		Port    int32
		Host    string
		BaseURL string // public origin used to build checkout redirect URLs
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Storage struct {
		MediaDir  string // book PDFs
		CoversDir string // cached cover images
	}
	Stripe struct {
		SecretKey  string
		PriceCents int64 // single fixed price for all paid books
		Currency   string
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Audit struct {
		PayloadDir string // disk echo of verified provider payloads
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Stats struct {
		Enabled  bool
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
	}
	Demo struct {
		Enabled bool // Read-only demo deployment: catalog mutations are blocked
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("base_url", "http://localhost:8190")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("media_dir", DefaultMediaDir)
	v.SetDefault("covers_dir", DefaultCoversDir)
	v.SetDefault("audit_payload_dir", "./audit")

	// Stripe defaults. The price is a single fixed amount for every paid
	// book; per-book pricing would move this onto the Book record.
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("stripe_price_cents", DefaultPriceCents)
	v.SetDefault("stripe_currency", "usd")

	// Auth defaults
	v.SetDefault("auth_mode", "local")
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Catalog stats scheduler defaults
	v.SetDefault("stats_enabled", true)
	v.SetDefault("stats_schedule", "*/15 * * * *")

	// Demo mode defaults
	v.SetDefault("demo_mode", false)

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("BASE_URL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			MediaDir:  v.GetString("MEDIA_DIR"),
			CoversDir: v.GetString("COVERS_DIR"),
		},
		Stripe: Stripe{
			SecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			PriceCents: v.GetInt64("STRIPE_PRICE_CENTS"),
			Currency:   v.GetString("STRIPE_CURRENCY"),
		},
		Auth: Auth{
			Mode:             AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Audit: Audit{
			PayloadDir: v.GetString("AUDIT_PAYLOAD_DIR"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Stats: Stats{
			Enabled:  v.GetBool("STATS_ENABLED"),
			Schedule: v.GetString("STATS_SCHEDULE"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
	}
}
