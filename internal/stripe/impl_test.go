package stripe

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stripe/stripe-go/v82"
)

func newTestClient(fn func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)) *stripeClient {
	return &stripeClient{
		secretKey: "sk_test_123",
		opts: Options{
			Currency:   "gbp",
			SuccessURL: "https://giftie.example.com/success",
			CancelURL:  "https://giftie.example.com/cancel",
		},
		newSession: fn,
	}
}

func TestCreateCheckoutSession_BuildsSingleLineItem(t *testing.T) {
	var captured *stripe.CheckoutSessionParams
	c := newTestClient(func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		captured = p
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
	})

	ctx := context.Background()
	got, err := c.CreateCheckoutSession(ctx, CheckoutParams{Gift: "Flowers", Recipient: "Ana", Price: 5.00})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.URL != "https://checkout.stripe.com/c/pay/cs_test_1" || got.ID != "cs_test_1" {
		t.Errorf("unexpected session: %+v", got)
	}

	if captured == nil {
		t.Fatal("session.New was not called")
	}
	if captured.Context != ctx {
		t.Error("request context was not propagated")
	}
	if *captured.Mode != string(stripe.CheckoutSessionModePayment) {
		t.Errorf("mode: got %q", *captured.Mode)
	}
	if len(captured.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(captured.LineItems))
	}

	item := captured.LineItems[0]
	if *item.Quantity != 1 {
		t.Errorf("quantity: got %d", *item.Quantity)
	}
	if *item.PriceData.UnitAmount != 500 {
		t.Errorf("unit amount: got %d, want 500", *item.PriceData.UnitAmount)
	}
	if *item.PriceData.Currency != "gbp" {
		t.Errorf("currency: got %q", *item.PriceData.Currency)
	}
	if *item.PriceData.ProductData.Name != "Flowers for Ana" {
		t.Errorf("product name: got %q", *item.PriceData.ProductData.Name)
	}
	if *captured.SuccessURL != "https://giftie.example.com/success" || *captured.CancelURL != "https://giftie.example.com/cancel" {
		t.Errorf("redirect urls: %q / %q", *captured.SuccessURL, *captured.CancelURL)
	}
}

func TestCreateCheckoutSession_UnitAmountIsRounded(t *testing.T) {
	var amount int64
	c := newTestClient(func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		amount = *p.LineItems[0].PriceData.UnitAmount
		return &stripe.CheckoutSession{URL: "https://checkout.stripe.com/x"}, nil
	})

	if _, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{Gift: "Pen", Recipient: "Ana", Price: 19.99}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 1999 {
		t.Errorf("unit amount: got %d, want 1999", amount)
	}
}

func TestCreateCheckoutSession_RejectsOutOfRangePrice(t *testing.T) {
	c := newTestClient(func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		t.Fatal("session.New must not be called")
		return nil, nil
	})

	for _, price := range []float64{0, -1, MaxPrice + 0.01, 1e300, math.Inf(1), math.NaN()} {
		_, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{Gift: "Flowers", Recipient: "Ana", Price: price})
		if !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("price %v: expected ErrInvalidPrice, got %v", price, err)
		}
	}

	if got := UnitAmount(MaxPrice); got != 99999999 {
		t.Errorf("UnitAmount(MaxPrice): got %d", got)
	}
}

func TestCreateCheckoutSession_ProviderErrorIsWrapped(t *testing.T) {
	providerErr := &stripe.Error{Msg: "Amount must be at least £0.30 gbp"}
	c := newTestClient(func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, providerErr
	})

	_, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{Gift: "Pen", Recipient: "Ana", Price: 0.1})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *stripe.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *stripe.Error in chain, got %v", err)
	}
	if ProviderMessage(err) != "Amount must be at least £0.30 gbp" {
		t.Errorf("provider message: got %q", ProviderMessage(err))
	}
}
