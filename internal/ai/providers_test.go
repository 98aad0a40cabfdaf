package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ─── OpenAI-compatible ────────────────────────────────────────────────────────

func TestOpenAIClient_SendsPersonaAndSamplingParams(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization header: got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Happy birthday, Ana! \n"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "gpt-4", srv.URL+"/v1/")

	msg, err := c.WriteMessage(context.Background(), "Ana's birthday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Happy birthday, Ana!" {
		t.Errorf("message: got %q", msg)
	}

	if got.Model != "gpt-4" || got.MaxTokens != MaxTokens || got.Temperature != Temperature {
		t.Errorf("request params: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[0].Content != SystemPrompt {
		t.Fatalf("system turn: %+v", got.Messages)
	}
	if got.Messages[1].Content != "Write a short postcard message for: Ana's birthday" {
		t.Errorf("user turn: %q", got.Messages[1].Content)
	}
}

func TestOpenAIClient_APIErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient("bad", "gpt-4", srv.URL).WriteMessage(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "Incorrect API key") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestOpenAIClient_NoChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := NewOpenAIClient("k", "gpt-4", srv.URL).WriteMessage(context.Background(), "x"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewOpenAIClient_DefaultsBaseURL(t *testing.T) {
	c := NewOpenAIClient("k", "gpt-4", "").(*openAIClient)
	if c.baseURL != DefaultOpenAIBaseURL {
		t.Errorf("baseURL: got %q", c.baseURL)
	}
}

// ─── Anthropic ────────────────────────────────────────────────────────────────

func TestAnthropicClient_ReturnsFirstTextBlock(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "ak-test" || r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Warm wishes!"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("ak-test", "claude-test").(*anthropicClient)
	c.endpoint = srv.URL

	msg, err := c.WriteMessage(context.Background(), "a mentor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Warm wishes!" {
		t.Errorf("message: got %q", msg)
	}
	if got.System != SystemPrompt || got.MaxTokens != MaxTokens || got.Temperature != Temperature {
		t.Errorf("request params: %+v", got)
	}
}

func TestAnthropicClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("ak", "claude-test").(*anthropicClient)
	c.endpoint = srv.URL

	_, err := c.WriteMessage(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "rate_limit_error") {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}
