// Package api implements the HTTP layer for Giftie. Handlers are methods on
// *Server. Each handler file is responsible for one resource group and only
// imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/nyashahama/giftie-backend/internal/db"
	"github.com/nyashahama/giftie-backend/internal/email"
	"github.com/nyashahama/giftie-backend/internal/metrics"
	"github.com/nyashahama/giftie-backend/internal/postcard"
	stripeinternal "github.com/nyashahama/giftie-backend/internal/stripe"
	"github.com/nyashahama/giftie-backend/internal/suggest"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// PostcardDir is served read-only under /postcards/.
	PostcardDir string

	// RequestTimeout bounds every request. Zero means 90s.
	RequestTimeout time.Duration
}

// Postcards is the subset of *postcard.Service the handlers use.
type Postcards interface {
	RenderGiftCard(ctx context.Context, recipient, gift string) (postcard.Result, error)
	RenderCustom(ctx context.Context, p postcard.CustomParams) (postcard.Result, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all reads and writes. Injected directly, no repo wrapper.
	q db.Querier

	suggester *suggest.Suggester

	// stripe creates hosted checkout sessions.
	stripe stripeinternal.Client

	postcards Postcards

	// mailer delivers postcards and the relay test email.
	mailer email.Sender

	metrics   *metrics.Metrics
	validator *validator.Validate
	cfg       Config
	logger    *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Server.
func NewServer(
	q db.Querier,
	suggester *suggest.Suggester,
	stripeClient stripeinternal.Client,
	postcards Postcards,
	mailer email.Sender,
	m *metrics.Metrics,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if suggester == nil {
		suggester = suggest.New(nil)
	}
	s := &Server{
		q:         q,
		suggester: suggester,
		stripe:    stripeClient,
		postcards: postcards,
		mailer:    mailer,
		metrics:   m,
		validator: newValidator(),
		cfg:       cfg,
		logger:    logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	r.Use(middleware.Timeout(timeout))

	// ── Operations ────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// ── Rendered postcards ────────────────────────────────────────────────────
	if s.cfg.PostcardDir != "" {
		r.Get(postcard.URLPrefix+"{file}", s.handlePostcardFile)
	}

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Post("/friends", s.handleCreateFriend)
		r.Get("/friends", s.handleListFriends)

		r.Post("/gift-history", s.handleSaveGift)
		r.Get("/gift-history", s.handleListGiftHistory)

		r.Post("/suggest-gift", s.handleSuggestGift)
		r.Get("/suggestions", s.handleListSuggestions)

		r.Post("/create-checkout-session", s.handleCreateCheckoutSession)

		r.Post("/generate-postcard", s.handleGeneratePostcard)
		r.Post("/generate-custom-postcard", s.handleGenerateCustomPostcard)

		r.Post("/email-postcard", s.handleEmailPostcard)
		r.Post("/send-test-email", s.handleSendTestEmail)
	})

	return r
}
