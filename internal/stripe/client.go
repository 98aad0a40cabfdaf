// Package stripe defines the interface for Stripe API calls and provides
// helpers used by the api package.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v82"
)

// MaxPrice is the largest charge Stripe accepts, in major units. Prices
// above it would also overflow the int64 unit amount.
const MaxPrice = 999999.99

// ErrInvalidPrice is returned for prices outside (0, MaxPrice].
var ErrInvalidPrice = errors.New("stripe: price must be greater than 0 and at most 999999.99")

// ─── TYPES ────────────────────────────────────────────────────────────────────

// CheckoutParams holds the inputs for a single-item hosted checkout.
type CheckoutParams struct {
	Gift      string
	Recipient string
	Price     float64 // major currency units, e.g. 5.00 for £5.00
}

// CheckoutSession is the subset of a Stripe Checkout Session that callers need.
type CheckoutSession struct {
	ID  string
	URL string // hosted checkout page the browser is redirected to
}

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api package uses for all Stripe calls.
// The concrete implementation wraps the official stripe-go SDK.
// Tests inject a stub.
type Client interface {
	// CreateCheckoutSession creates a one-line-item payment session and
	// returns its hosted URL. Errors are not retried.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error)
}

// ─── HELPERS ──────────────────────────────────────────────────────────────────

// UnitAmount converts a price in major units to Stripe's minor units,
// rounding to the nearest unit: 19.99 → 1999, not the truncated 1998.
func UnitAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}

// ProductName is the line-item label shown on the hosted checkout page.
func ProductName(gift, recipient string) string {
	return fmt.Sprintf("%s for %s", gift, recipient)
}

// ProviderMessage extracts the human-readable message Stripe attached to an
// API error. Non-Stripe errors (network failures, context cancellation) fall
// back to err.Error().
func ProviderMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
