package checkout

// SessionRequest describes a checkout session to be created.
type SessionRequest struct {
	BookID      uint
	UserID      uint
	Title       string
	Description string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// Session is a provider-side checkout session, normalized away from any
// particular provider's types.
type Session struct {
	ID string
	// RedirectURL is where the buyer completes payment.
	RedirectURL string
	// BookID and UserID come from session metadata and identify what the
	// session was created for. Verification cross-checks them against the
	// requesting principal.
	BookID uint
	UserID uint
	Paid   bool
	// TransactionID is the provider's durable payment reference, used as
	// the ledger's idempotency key.
	TransactionID string
}

// Provider creates and retrieves payment sessions.
type Provider interface {
	CreateSession(req SessionRequest) (*Session, error)
	GetSession(id string) (*Session, error)
}
