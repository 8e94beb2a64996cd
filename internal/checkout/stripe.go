package checkout

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// StripeProvider implements Provider against the Stripe Checkout API.
type StripeProvider struct{}

// NewStripeProvider configures the Stripe client with the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

func (p *StripeProvider) CreateSession(req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.Title),
						Description: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.AddMetadata("book_id", strconv.FormatUint(uint64(req.BookID), 10))
	params.AddMetadata("user_id", strconv.FormatUint(uint64(req.UserID), 10))

	s, err := session.New(params)
	if err != nil {
		return nil, classifyStripeError(err)
	}
	return fromStripeSession(s), nil
}

func (p *StripeProvider) GetSession(id string) (*Session, error) {
	s, err := session.Get(id, nil)
	if err != nil {
		return nil, classifyStripeError(err)
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:          s.ID,
		RedirectURL: s.URL,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if v, ok := s.Metadata["book_id"]; ok {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			out.BookID = uint(id)
		}
	}
	if v, ok := s.Metadata["user_id"]; ok {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			out.UserID = uint(id)
		}
	}
	// Prefer the payment intent as the durable transaction reference;
	// unpaid sessions may not have one yet.
	if s.PaymentIntent != nil && s.PaymentIntent.ID != "" {
		out.TransactionID = s.PaymentIntent.ID
	} else {
		out.TransactionID = s.ID
	}
	return out
}

func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.HTTPStatusCode == 401:
			return &ProviderError{Kind: ProviderErrorAuth, Err: err}
		case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
			return &ProviderError{Kind: ProviderErrorInvalid, Err: err}
		}
	}
	return &ProviderError{Kind: ProviderErrorGeneric, Err: fmt.Errorf("stripe request failed: %w", err)}
}
