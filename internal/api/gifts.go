package api

import (
	"fmt"
	"net/http"

	"github.com/nyashahama/giftie-backend/internal/db"
	"github.com/nyashahama/giftie-backend/internal/suggest"
)

// ─── POST /api/gift-history ───────────────────────────────────────────────────

type saveGiftRequest struct {
	Recipient     string `json:"recipient"      validate:"required,max=200"`
	Sentiment     string `json:"sentiment"      validate:"required,max=100"`
	SuggestedGift string `json:"suggested_gift" validate:"required,max=500"`
}

type saveGiftResponse struct {
	Message string         `json:"message"`
	Gift    db.GiftHistory `json:"gift"`
}

// handleSaveGift records a gift against a recipient name. Duplicates are
// expected and allowed.
func (s *Server) handleSaveGift(w http.ResponseWriter, r *http.Request) {
	var req saveGiftRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.validate(w, &req) {
		return
	}

	gift, err := s.q.CreateGiftHistory(r.Context(), db.CreateGiftHistoryParams{
		Recipient:     req.Recipient,
		Sentiment:     req.Sentiment,
		SuggestedGift: req.SuggestedGift,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("save gift: %w", err))
		return
	}

	respond(w, http.StatusCreated, saveGiftResponse{Message: "Gift saved", Gift: gift})
}

// ─── GET /api/gift-history?recipient= ─────────────────────────────────────────

// handleListGiftHistory returns gift history, filtered to an exact recipient
// match when the query parameter is present and non-empty.
func (s *Server) handleListGiftHistory(w http.ResponseWriter, r *http.Request) {
	recipient := r.URL.Query().Get("recipient")

	gifts, err := s.q.ListGiftHistory(r.Context(), recipient)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list gift history: %w", err))
		return
	}
	if gifts == nil {
		gifts = []db.GiftHistory{}
	}
	respond(w, http.StatusOK, gifts)
}

// ─── POST /api/suggest-gift ───────────────────────────────────────────────────

// Pointers so that an empty sentiment is accepted (it resolves to the default
// list) while an absent one is reported missing.
type suggestGiftRequest struct {
	Name      *string `json:"name"      validate:"required"`
	Sentiment *string `json:"sentiment" validate:"required"`
}

// handleSuggestGift picks one gift for the sentiment. It does not persist;
// the client saves the pick through /api/gift-history if it wants to.
func (s *Server) handleSuggestGift(w http.ResponseWriter, r *http.Request) {
	var req suggestGiftRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.validate(w, &req) {
		return
	}

	respond(w, http.StatusOK, s.suggester.Suggest(*req.Name, *req.Sentiment))
}

// ─── GET /api/suggestions?sentiment= ──────────────────────────────────────────

type suggestionsResponse struct {
	Sentiment  string   `json:"sentiment"`
	Recognised bool     `json:"recognised"`
	Candidates []string `json:"candidates"`
}

// handleListSuggestions returns the whole candidate list a sentiment
// resolves to, so clients can show alternatives.
func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	sentiment := r.URL.Query().Get("sentiment")
	respond(w, http.StatusOK, suggestionsResponse{
		Sentiment:  sentiment,
		Recognised: suggest.Recognised(sentiment),
		Candidates: suggest.Candidates(sentiment),
	})
}
