// Package postcard composes postcard HTML, screenshots it in a headless
// browser and writes the PNG under the served postcard directory.
package postcard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/giftie-backend/internal/ai"
	"github.com/nyashahama/giftie-backend/internal/metrics"
	"github.com/nyashahama/giftie-backend/internal/worker"
)

// URLPrefix is the path under which rendered files are served.
const URLPrefix = "/postcards/"

// ErrRenderFailed wraps every failure to produce a postcard file.
var ErrRenderFailed = errors.New("postcard: render failed")

// Result is what the API returns for a rendered postcard.
type Result struct {
	ImageURL string `json:"image_url"`
	Path     string `json:"-"`
}

// CustomParams describes a themed postcard request.
type CustomParams struct {
	Recipient string
	Message   string
	Theme     string
	// GenerateMessage treats Message as a prompt for the ai.Writer.
	GenerateMessage bool
}

// Service renders postcards. Rendering is funnelled through a
// worker.Submitter so the number of live browsers stays bounded.
type Service struct {
	renderer Renderer
	pool     worker.Submitter
	writer   ai.Writer
	dir      string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Config holds the Service dependencies. Writer and Metrics may be nil.
type Config struct {
	Renderer Renderer
	Pool     worker.Submitter
	Writer   ai.Writer
	Dir      string
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(cfg Config) *Service {
	return &Service{
		renderer: cfg.Renderer,
		pool:     cfg.Pool,
		writer:   cfg.Writer,
		dir:      cfg.Dir,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// Dir returns the output directory, for static file serving.
func (s *Service) Dir() string { return s.dir }

// RenderGiftCard renders the simple gift announcement card.
func (s *Service) RenderGiftCard(ctx context.Context, recipient, gift string) (Result, error) {
	doc, err := GiftCard(recipient, gift)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return s.Render(ctx, doc)
}

// RenderCustom renders a themed postcard, optionally asking the ai.Writer to
// author the message first. A writer failure never fails the render.
func (s *Service) RenderCustom(ctx context.Context, p CustomParams) (Result, error) {
	message := p.Message
	if p.GenerateMessage {
		message = ai.MessageOrFallback(ctx, s.writer, p.Message, s.logger)
	}

	doc, err := Styled(p.Recipient, message, ThemeByName(p.Theme))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return s.Render(ctx, doc)
}

// Render screenshots doc on the worker pool and writes <uuid hex>.png into
// the output directory, creating it if needed.
func (s *Service) Render(ctx context.Context, doc string) (Result, error) {
	start := time.Now()
	name := hexID() + ".png"
	path := filepath.Join(s.dir, name)

	err := s.pool.Do(ctx, func(ctx context.Context) error {
		png, err := s.renderer.Screenshot(ctx, doc)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("postcard: create output dir: %w", err)
		}
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("postcard: write %s: %w", name, err)
		}
		return nil
	})
	s.metrics.ObserveRender(time.Since(start), err)
	if err != nil {
		s.metrics.ExternalFailure(metrics.DepChrome)
		s.logger.Error("postcard: render failed", "file", name, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	s.logger.Info("postcard: rendered", "file", name, "duration", time.Since(start))
	return Result{ImageURL: URLPrefix + name, Path: path}, nil
}

func hexID() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:])
}
