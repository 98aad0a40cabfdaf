package api

import (
	"net/http"

	"github.com/nyashahama/giftie-backend/internal/email"
	"github.com/nyashahama/giftie-backend/internal/metrics"
)

type emailSentResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ─── POST /api/email-postcard ─────────────────────────────────────────────────

type emailPostcardRequest struct {
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	RecipientName  string `json:"recipient_name"  validate:"required"`
	ImageURL       string `json:"image_url"       validate:"required"`
}

// handleEmailPostcard sends a rendered postcard to the recipient. Relay
// failures are reported to the caller.
func (s *Server) handleEmailPostcard(w http.ResponseWriter, r *http.Request) {
	var req emailPostcardRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.validate(w, &req) {
		return
	}

	err := s.mailer.SendPostcard(r.Context(), email.PostcardParams{
		To:            req.RecipientEmail,
		RecipientName: req.RecipientName,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		s.metrics.ExternalFailure(metrics.DepSMTP)
		s.logger.Error("email: postcard send failed", "error", err, logField(r))
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, emailSentResponse{Message: "Postcard sent", Status: "sent"})
}

// ─── POST /api/send-test-email ────────────────────────────────────────────────

// handleSendTestEmail sends the fixed test message to the relay account.
func (s *Server) handleSendTestEmail(w http.ResponseWriter, r *http.Request) {
	if err := s.sendTest(r); err != nil {
		s.logger.Error("email: test send failed", "error", err, logField(r))
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond(w, http.StatusOK, emailSentResponse{Message: "Test email sent", Status: "sent"})
}

func (s *Server) sendTest(r *http.Request) error {
	err := s.mailer.SendTest(r.Context())
	if err != nil {
		s.metrics.ExternalFailure(metrics.DepSMTP)
	}
	return err
}
