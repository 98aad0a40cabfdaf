package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

// ─── AbsoluteURL ──────────────────────────────────────────────────────────────

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		base, img, want string
	}{
		{"https://giftie.app", "/postcards/a.png", "https://giftie.app/postcards/a.png"},
		{"https://giftie.app/", "/postcards/a.png", "https://giftie.app/postcards/a.png"},
		{"https://giftie.app", "postcards/a.png", "https://giftie.app/postcards/a.png"},
		{"https://giftie.app", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"", "/postcards/a.png", "/postcards/a.png"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AbsoluteURL(tc.base, tc.img), "%s + %s", tc.base, tc.img)
	}
}

// ─── SMTP ─────────────────────────────────────────────────────────────────────

func newTestSMTP(send func(context.Context, *mail.Msg) error) *smtpClient {
	c := NewSMTPClient(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     465,
		Username: "giftie@example.com",
		Password: "secret",
		FromName: "Giftie",
		BaseURL:  "https://giftie.app",
	}).(*smtpClient)
	c.send = send
	return c
}

func raw(t *testing.T, msg *mail.Msg) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSMTP_SendPostcard_MultipartWithAbsoluteImage(t *testing.T) {
	var sent *mail.Msg
	c := newTestSMTP(func(_ context.Context, m *mail.Msg) error {
		sent = m
		return nil
	})

	err := c.SendPostcard(context.Background(), PostcardParams{
		To:            "ana@example.com",
		RecipientName: "Ana",
		ImageURL:      "/postcards/abc.png",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)

	out := raw(t, sent)
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "text/plain")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "giftie@example.com")
	assert.Contains(t, out, "https://giftie.app/postcards/abc.png")
}

func TestSMTP_SendTest_GoesToSelf(t *testing.T) {
	var sent *mail.Msg
	c := newTestSMTP(func(_ context.Context, m *mail.Msg) error {
		sent = m
		return nil
	})

	require.NoError(t, c.SendTest(context.Background()))

	to := sent.GetToString()
	require.Len(t, to, 1)
	assert.Equal(t, "<giftie@example.com>", to[0])
	assert.Contains(t, raw(t, sent), "Test Email from Giftie")
}

func TestSMTP_RelayErrorIsWrapped(t *testing.T) {
	relayErr := errors.New("535 authentication failed")
	c := newTestSMTP(func(context.Context, *mail.Msg) error { return relayErr })

	err := c.SendTest(context.Background())
	require.ErrorIs(t, err, relayErr)
	assert.Contains(t, err.Error(), "email: smtp send")
}

func TestSMTP_InvalidRecipientRejectedBeforeDial(t *testing.T) {
	dialled := false
	c := newTestSMTP(func(context.Context, *mail.Msg) error {
		dialled = true
		return nil
	})

	err := c.SendPostcard(context.Background(), PostcardParams{To: "not an address", ImageURL: "/x.png"})
	require.Error(t, err)
	assert.False(t, dialled)
}

// ─── RESEND ───────────────────────────────────────────────────────────────────

func TestResend_SendPostcard(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"em_123"}`))
	}))
	defer srv.Close()

	c := NewResendClient("re_test", "postcards@giftie.app", "Giftie", "https://giftie.app").(*resendClient)
	c.endpoint = srv.URL

	err := c.SendPostcard(context.Background(), PostcardParams{
		To:            "ana@example.com",
		RecipientName: "Ana",
		ImageURL:      "/postcards/abc.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Giftie <postcards@giftie.app>", got.From)
	assert.Equal(t, []string{"ana@example.com"}, got.To)
	assert.Equal(t, postcardSubject, got.Subject)
	assert.Contains(t, got.HTML, `src="https://giftie.app/postcards/abc.png"`)
	assert.True(t, strings.HasPrefix(got.Text, "Hi Ana,"))
}

func TestResend_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"Invalid to field","statusCode":422}`))
	}))
	defer srv.Close()

	c := NewResendClient("re_test", "postcards@giftie.app", "", "").(*resendClient)
	c.endpoint = srv.URL

	err := c.SendTest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid to field")
}

// ─── TEMPLATES ────────────────────────────────────────────────────────────────

func TestPostcardMessage_EscapesName(t *testing.T) {
	m, err := postcardMessage("a@example.com", "<Ana>", "https://giftie.app/p.png")
	require.NoError(t, err)
	assert.Contains(t, m.HTMLBody, "Hi &lt;Ana&gt;,")
	assert.Contains(t, m.TextBody, "Hi <Ana>,")
}

func TestPostcardMessage_DefaultGreeting(t *testing.T) {
	m, err := postcardMessage("a@example.com", "", "https://giftie.app/p.png")
	require.NoError(t, err)
	assert.Contains(t, m.TextBody, "Hi there,")
}
