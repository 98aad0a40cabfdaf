package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nyashahama/giftie-backend/internal/db"
)

// ─── POST /api/friends ────────────────────────────────────────────────────────

type createFriendRequest struct {
	Name      string  `json:"name"      validate:"required,max=200"`
	Birthday  string  `json:"birthday"  validate:"required,datetime=2006-01-02"`
	Sentiment string  `json:"sentiment" validate:"required,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email"`
}

// handleCreateFriend stores a friend and returns the row with its id.
func (s *Server) handleCreateFriend(w http.ResponseWriter, r *http.Request) {
	var req createFriendRequest
	if !decode(w, r, &req) {
		return
	}
	// An explicit empty string means "no email", same as omitting it.
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		req.Email = nil
	}
	if !s.validate(w, &req) {
		return
	}

	birthday, err := db.ParseDate(req.Birthday)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "birthday: "+err.Error())
		return
	}

	friend, err := s.q.CreateFriend(r.Context(), db.CreateFriendParams{
		Name:      req.Name,
		Birthday:  birthday,
		Sentiment: req.Sentiment,
		Email:     req.Email,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create friend: %w", err))
		return
	}

	respond(w, http.StatusCreated, friend)
}

// ─── GET /api/friends ─────────────────────────────────────────────────────────

// handleListFriends returns every friend. There is no filter.
func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.q.ListFriends(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list friends: %w", err))
		return
	}
	if friends == nil {
		friends = []db.Friend{}
	}
	respond(w, http.StatusOK, friends)
}
