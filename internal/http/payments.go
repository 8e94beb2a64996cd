package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mujeebkhan77/digital-Library/internal/audit"
	"github.com/mujeebkhan77/digital-Library/internal/auth"
	"github.com/mujeebkhan77/digital-Library/internal/checkout"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
)

// PurchaseReader lists a user's completed purchases.
type PurchaseReader interface {
	ListPaidByUser(userID uint) ([]entities.Purchase, error)
}

// PaymentsController drives the buy flow: create a provider session,
// then verify it on the success redirect and record the purchase.
type PaymentsController struct {
	orchestrator *checkout.Orchestrator
	purchases    PurchaseReader
	sessions     *auth.SessionManager
	audit        *audit.Service
	auditor      *audit.Auditor
}

func NewPaymentsController(
	orchestrator *checkout.Orchestrator,
	purchases PurchaseReader,
	sessions *auth.SessionManager,
	auditService *audit.Service,
	auditor *audit.Auditor,
) *PaymentsController {
	return &PaymentsController{
		orchestrator: orchestrator,
		purchases:    purchases,
		sessions:     sessions,
		audit:        auditService,
		auditor:      auditor,
	}
}

// Checkout creates a payment session for a paid book and returns the
// provider URL the client should redirect to.
// POST /api/books/:id/checkout
func (pc *PaymentsController) Checkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	// When auth runs in "none" mode no middleware rejects anonymous
	// requests, so the handler has to.
	user := GetUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	session, err := pc.orchestrator.CreateSession(user, id)
	if err != nil {
		pc.respondCheckoutError(c, user.ID, id, err)
		return
	}

	// Remember which book this session belongs to so the success
	// redirect can be verified without trusting query parameters alone.
	pc.sessions.RememberCheckout(c.Request, session.ID, id)

	if pc.audit != nil {
		pc.audit.LogCheckout(user.ID, id, "checkout_create", session.ID, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":   session.ID,
		"checkout_url": session.RedirectURL,
	})
}

// Success verifies the provider session named in the redirect and
// records the purchase.
// GET /api/payments/success?session_id=...
func (pc *PaymentsController) Success(c *gin.Context) {
	user := GetUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondBadRequest(c, "session_id is required")
		return
	}

	// The session cookie is advisory: it recovers the book ID for the
	// common case. Verification itself trusts only provider metadata.
	pendingID, bookID := pc.sessions.PendingCheckout(c.Request)
	if pendingID != sessionID {
		bookID = 0
	}
	if bookID == 0 {
		session, err := pc.orchestrator.ProviderSession(sessionID)
		if err != nil {
			pc.respondCheckoutError(c, user.ID, 0, err)
			return
		}
		bookID = session.BookID
	}

	purchase, err := pc.orchestrator.VerifySession(user, bookID, sessionID)
	if err != nil {
		if pc.audit != nil {
			pc.audit.LogCheckout(user.ID, bookID, "checkout_verify_failed", sessionID, err)
		}
		pc.respondCheckoutError(c, user.ID, bookID, err)
		return
	}

	pc.sessions.ClearCheckout(c.Request)

	if pc.audit != nil {
		pc.audit.LogCheckout(user.ID, bookID, "checkout_verify", sessionID, nil)
	}
	if pc.auditor != nil {
		if _, err := pc.auditor.SaveJSON(gin.H{
			"session_id":  sessionID,
			"user_id":     user.ID,
			"book_id":     bookID,
			"purchase_id": purchase.ID,
			"payment_id":  purchase.StripePaymentID,
		}); err != nil {
			// Snapshot persistence never blocks the purchase.
			log.Printf("Failed to save checkout snapshot for session %s: %v", sessionID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "purchase complete",
		"purchase": purchase,
	})
}

// Cancelled acknowledges an abandoned checkout.
// GET /api/payments/cancelled
func (pc *PaymentsController) Cancelled(c *gin.Context) {
	pc.sessions.ClearCheckout(c.Request)
	c.JSON(http.StatusOK, gin.H{"message": "checkout cancelled"})
}

// Purchased lists the caller's paid books.
// GET /api/purchases
func (pc *PaymentsController) Purchased(c *gin.Context) {
	purchases, err := pc.purchases.ListPaidByUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list purchases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (pc *PaymentsController) respondCheckoutError(c *gin.Context, userID, bookID uint, err error) {
	var providerErr *checkout.ProviderError
	switch {
	case errors.Is(err, checkout.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "payments are not available")
	case errors.Is(err, checkout.ErrNoPrincipal):
		respondError(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, checkout.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, checkout.ErrFreeBook):
		respondBadRequest(c, "book is free and cannot be purchased")
	case errors.Is(err, checkout.ErrAlreadyEntitled):
		respondError(c, http.StatusConflict, "book is already purchased")
	case errors.Is(err, checkout.ErrPaymentIncomplete):
		respondError(c, http.StatusPaymentRequired, "payment has not completed")
	case errors.Is(err, checkout.ErrVerificationFailed):
		respondError(c, http.StatusForbidden, "payment verification failed")
	case errors.As(err, &providerErr):
		if pc.audit != nil {
			pc.audit.LogCheckout(userID, bookID, "checkout_provider_error", "", err)
		}
		switch providerErr.Kind {
		case checkout.ProviderErrorAuth:
			respondInternalError(c, err, "payment provider credentials")
		case checkout.ProviderErrorInvalid:
			respondBadRequest(c, "unknown payment session")
		default:
			respondError(c, http.StatusBadGateway, "payment provider unavailable")
		}
	default:
		respondInternalError(c, err, "checkout")
	}
}
