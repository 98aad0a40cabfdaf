package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// fallbackWriter wraps two Writer implementations. It calls the primary first;
// if that returns an error it logs the failure and tries the secondary.
type fallbackWriter struct {
	primary   Writer
	secondary Writer
	logger    *slog.Logger
}

// NewFallbackWriter returns a Writer that calls primary and, on failure,
// falls back to secondary. Either argument may be nil: if primary is nil
// it goes straight to secondary; if secondary is nil and primary fails, the
// primary error is returned directly.
func NewFallbackWriter(primary, secondary Writer, logger *slog.Logger) Writer {
	return &fallbackWriter{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// WriteMessage tries the primary Writer. If it fails and a secondary is
// configured, it logs the primary error and tries the secondary.
func (f *fallbackWriter) WriteMessage(ctx context.Context, prompt string) (string, error) {
	if f.primary != nil {
		msg, err := f.primary.WriteMessage(ctx, prompt)
		if err == nil {
			return msg, nil
		}
		f.logger.Warn("ai: primary writer failed, trying secondary", "error", err)
		if f.secondary == nil {
			return "", fmt.Errorf("ai: primary failed and no secondary configured: %w", err)
		}
	}

	if f.secondary == nil {
		return "", fmt.Errorf("ai: no writer configured")
	}
	return f.secondary.WriteMessage(ctx, prompt)
}
