// Package auth provides authentication and authorization for the library.
//
// It supports two modes:
//   - "local": user database with session cookies (default)
//   - "none": no authentication, every request runs as an anonymous principal
//
// # Configuration
//
//	AUTH_MODE=local                        # or "none"
//	AUTH_SESSION_SECRET=<hex-32-bytes>     # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h              # Session duration
//	AUTH_BCRYPT_COST=12                    # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true               # HTTPS-only cookies
//
// # Usage
//
// Initialize in the entrypoint:
//
//	authService := auth.NewService(db.DB, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessionManager, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//
// Extract the principal in handlers:
//
//	user := auth.GetUser(c) // nil when unauthenticated
//
// Role checks for admin routes go through Middleware.RequireRole; the
// entitlement logic never looks at roles, only at the purchase ledger.
package auth
