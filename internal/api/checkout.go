package api

import (
	"net/http"

	"github.com/nyashahama/giftie-backend/internal/metrics"
	stripeinternal "github.com/nyashahama/giftie-backend/internal/stripe"
)

// ─── POST /api/create-checkout-session ────────────────────────────────────────

type createCheckoutRequest struct {
	Gift      string   `json:"gift"      validate:"required"`
	Recipient string   `json:"recipient" validate:"required"`
	Price     *float64 `json:"price"     validate:"required,gt=0,lte=999999.99"`
}

type createCheckoutResponse struct {
	// CheckoutURL is the Stripe-hosted payment page the client redirects to.
	CheckoutURL string `json:"checkout_url"`
}

// handleCreateCheckoutSession creates a one-item Stripe Checkout Session for
// "<gift> for <recipient>" and returns its hosted URL. Provider failures are
// reported with Stripe's own message and are not retried.
func (s *Server) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.validate(w, &req) {
		return
	}

	session, err := s.stripe.CreateCheckoutSession(r.Context(), stripeinternal.CheckoutParams{
		Gift:      req.Gift,
		Recipient: req.Recipient,
		Price:     *req.Price,
	})
	if err != nil {
		s.metrics.ExternalFailure(metrics.DepStripe)
		s.logger.Error("checkout: stripe error", "error", err, logField(r))
		respondErr(w, http.StatusInternalServerError, stripeinternal.ProviderMessage(err))
		return
	}

	s.logger.Info("checkout: session created", "session_id", session.ID, logField(r))
	respond(w, http.StatusOK, createCheckoutResponse{CheckoutURL: session.URL})
}
