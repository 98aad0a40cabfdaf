package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nyashahama/giftie-backend/internal/postcard"
)

type postcardResponse struct {
	ImageURL string `json:"image_url"`
}

// respondRenderErr reports a render failure in the {"detail": ...} shape the
// postcard clients expect.
func (s *Server) respondRenderErr(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("postcard: render failed", "error", err, logField(r))
	respond(w, http.StatusInternalServerError, map[string]string{
		"detail": "Failed to render postcard: " + err.Error(),
	})
}

// ─── POST /api/generate-postcard ──────────────────────────────────────────────

type generatePostcardRequest struct {
	Gift      string `json:"gift"      validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
}

// handleGeneratePostcard renders the simple gift card, then fires the relay
// test email. The email outcome never affects the response.
func (s *Server) handleGeneratePostcard(w http.ResponseWriter, r *http.Request) {
	var req generatePostcardRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.validate(w, &req) {
		return
	}

	res, err := s.postcards.RenderGiftCard(r.Context(), req.Recipient, req.Gift)
	if err != nil {
		s.respondRenderErr(w, r, err)
		return
	}

	s.logAndIgnoreEmailErr(r, s.sendTest(r), "generate-postcard test email")

	respond(w, http.StatusOK, postcardResponse{ImageURL: res.ImageURL})
}

// ─── POST /api/generate-custom-postcard ───────────────────────────────────────

type generateCustomPostcardRequest struct {
	Recipient       string `json:"recipient"        validate:"required"`
	Message         string `json:"message"          validate:"required,max=2000"`
	Theme           string `json:"theme"`
	GenerateMessage bool   `json:"generate_message"`
}

// handleGenerateCustomPostcard renders a themed postcard. Unknown themes fall
// back to birthday. With generate_message set, message is used as the prompt
// for a model-written message.
func (s *Server) handleGenerateCustomPostcard(w http.ResponseWriter, r *http.Request) {
	var req generateCustomPostcardRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.validate(w, &req) {
		return
	}

	res, err := s.postcards.RenderCustom(r.Context(), postcard.CustomParams{
		Recipient:       req.Recipient,
		Message:         req.Message,
		Theme:           req.Theme,
		GenerateMessage: req.GenerateMessage,
	})
	if err != nil {
		s.respondRenderErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, postcardResponse{ImageURL: res.ImageURL})
}

// ─── GET /postcards/{file} ────────────────────────────────────────────────────

// handlePostcardFile serves one rendered PNG from PostcardDir. Only regular
// files directly inside the directory are served; there is no listing.
func (s *Server) handlePostcardFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.cfg.PostcardDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
