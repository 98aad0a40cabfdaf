// Package ai defines the interface for language-model authored postcard
// messages and provides OpenAI-compatible and Anthropic implementations.
package ai

import (
	"context"
	"log/slog"
	"strings"
)

// ─── PROMPT CONSTANTS ─────────────────────────────────────────────────────────

// SystemPrompt is the fixed persona every provider is given.
const SystemPrompt = "You are a friendly and creative postcard writer. Keep it short, warm, and heartfelt."

const (
	// MaxTokens bounds the length of a generated message.
	MaxTokens = 100
	// Temperature is the sampling temperature sent to every provider.
	Temperature = 0.8
)

// FallbackMessage replaces the generated text whenever the provider call
// fails for any reason.
const FallbackMessage = "Hope this little surprise brightens your day! 🎁"

// ─── WRITER INTERFACE ─────────────────────────────────────────────────────────

// Writer is the interface the postcard service uses to author messages.
// Tests inject a stub that returns canned responses.
type Writer interface {
	// WriteMessage asks the model for a short postcard message about prompt.
	//
	// Implementations must be safe to call concurrently. A non-nil error
	// means no usable text was produced; callers substitute FallbackMessage.
	WriteMessage(ctx context.Context, prompt string) (string, error)
}

// UserPrompt wraps the caller's description into the user turn.
func UserPrompt(prompt string) string {
	return "Write a short postcard message for: " + prompt
}

// MessageOrFallback calls w and returns its trimmed text, or FallbackMessage
// when w is nil, fails, or returns only whitespace. It never returns an error.
func MessageOrFallback(ctx context.Context, w Writer, prompt string, logger *slog.Logger) string {
	if w == nil {
		logger.Debug("ai: no writer configured, using fallback message")
		return FallbackMessage
	}

	msg, err := w.WriteMessage(ctx, prompt)
	if err != nil {
		logger.Warn("ai: message generation failed, using fallback", "error", err)
		return FallbackMessage
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		logger.Warn("ai: provider returned empty message, using fallback")
		return FallbackMessage
	}
	return msg
}
