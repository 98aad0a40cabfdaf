// Package email defines the interface for postcard delivery and provides
// SMTP (go-mail) and Resend-backed implementations.
package email

import (
	"context"
	"net/url"
	"strings"
)

// PostcardParams holds the data needed to send a rendered postcard.
type PostcardParams struct {
	To            string // recipient email address
	RecipientName string // used in the greeting
	ImageURL      string // absolute, or relative to the public base URL
}

// Sender is the interface the api handlers use to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// SendPostcard emails the postcard image, embedded by URL, to p.To.
	SendPostcard(ctx context.Context, p PostcardParams) error

	// SendTest sends a fixed test message from the sender to itself. Used to
	// check relay credentials.
	SendTest(ctx context.Context) error
}

// Message is one multipart/alternative email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// AbsoluteURL resolves a relative image URL such as "/postcards/x.png"
// against baseURL. Absolute URLs and an empty baseURL pass through.
func AbsoluteURL(baseURL, imageURL string) string {
	if baseURL == "" {
		return imageURL
	}
	if u, err := url.Parse(imageURL); err == nil && u.IsAbs() {
		return imageURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(imageURL, "/")
}
