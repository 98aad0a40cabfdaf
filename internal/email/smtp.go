package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds relay settings. Port 465 means implicit TLS; any other
// port uses STARTTLS when the server offers it.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // also the From address
	Password string
	FromName string
	BaseURL  string // public base for relative image URLs
}

// smtpClient is the concrete Sender backed by an SMTP relay.
type smtpClient struct {
	cfg  SMTPConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

// NewSMTPClient returns a Sender that delivers email through cfg's relay.
func NewSMTPClient(cfg SMTPConfig) Sender {
	c := &smtpClient{cfg: cfg}
	c.send = c.dialAndSend
	return c
}

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// SendPostcard sends the postcard email to p.To.
func (c *smtpClient) SendPostcard(ctx context.Context, p PostcardParams) error {
	m, err := postcardMessage(p.To, p.RecipientName, AbsoluteURL(c.cfg.BaseURL, p.ImageURL))
	if err != nil {
		return err
	}
	return c.deliver(ctx, m)
}

// SendTest sends the fixed test email to the relay account itself.
func (c *smtpClient) SendTest(ctx context.Context) error {
	return c.deliver(ctx, testMessage(c.cfg.Username))
}

// ─── SMTP SEND ────────────────────────────────────────────────────────────────

func (c *smtpClient) deliver(ctx context.Context, m Message) error {
	msg, err := c.build(m)
	if err != nil {
		return err
	}
	if err := c.send(ctx, msg); err != nil {
		return fmt.Errorf("email: smtp send to %s: %w", m.To, err)
	}
	return nil
}

// build turns m into a multipart/alternative message with the plain-text
// part first.
func (c *smtpClient) build(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if c.cfg.FromName != "" {
		if err := msg.FromFormat(c.cfg.FromName, c.cfg.Username); err != nil {
			return nil, fmt.Errorf("email: from address: %w", err)
		}
	} else if err := msg.From(c.cfg.Username); err != nil {
		return nil, fmt.Errorf("email: from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("email: to address: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, m.TextBody)
	msg.AddAlternativeString(mail.TypeTextHTML, m.HTMLBody)
	return msg, nil
}

func (c *smtpClient) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.cfg.Username),
		mail.WithPassword(c.cfg.Password),
		mail.WithTimeout(15 * time.Second),
	}
	if c.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(c.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("email: smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
