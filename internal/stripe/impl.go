package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// Options configures the hosted checkout page.
type Options struct {
	Currency   string // ISO code, lower-case; e.g. "gbp"
	SuccessURL string
	CancelURL  string
}

// stripeClient is the concrete implementation of Client backed by the
// official stripe-go SDK. Construct it with NewClient.
type stripeClient struct {
	secretKey string
	opts      Options

	// newSession is session.New in production; tests capture the params.
	newSession func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewClient returns a Client backed by the Stripe SDK.
// secretKey is your STRIPE_SECRET_KEY env var.
func NewClient(secretKey string, opts Options) Client {
	return &stripeClient{
		secretKey:  secretKey,
		opts:       opts,
		newSession: session.New,
	}
}

// CreateCheckoutSession builds a card-only payment session with exactly one
// line item: "<gift> for <recipient>", quantity 1, unit amount in minor units.
func (c *stripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	if !(p.Price > 0 && p.Price <= MaxPrice) {
		return CheckoutSession{}, fmt.Errorf("stripe: create checkout session: %w", ErrInvalidPrice)
	}

	stripe.Key = c.secretKey

	params := c.checkoutParams(p)
	// Propagate context deadline to the Stripe HTTP call.
	params.Context = ctx

	s, err := c.newSession(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (c *stripeClient) checkoutParams(p CheckoutParams) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.opts.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(ProductName(p.Gift, p.Recipient)),
					},
					UnitAmount: stripe.Int64(UnitAmount(p.Price)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.opts.SuccessURL),
		CancelURL:  stripe.String(c.opts.CancelURL),
	}
}
