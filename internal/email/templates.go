package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
)

const (
	postcardSubject = "You've received a postcard from Giftie 🎁"
	testSubject     = "Test Email from Giftie"
)

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────

var postcardHTMLTmpl = htmltemplate.Must(htmltemplate.New("postcard").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 640px; margin: 0 auto; padding: 24px;">
  <p>Hi {{.Name}},</p>
  <p>Someone sent you a postcard through Giftie:</p>
  <p style="margin: 24px 0;">
    <img src="{{.ImageURL}}" alt="Your postcard" style="max-width: 600px; width: 100%; border-radius: 8px;">
  </p>
  <p style="color: #6b7280; font-size: 14px;">
    If the image does not load, open it here:<br>
    <a href="{{.ImageURL}}" style="color: #6b7280;">{{.ImageURL}}</a>
  </p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">Sent with love from the Giftie app</p>
</body>
</html>`))

const testHTML = `<html>
<body>
  <p>Hello,<br>
  This is a <b>test</b> email from <i>Giftie</i>.
  </p>
</body>
</html>`

const testText = "Hi,\nThis is a test email from Giftie."

// postcardMessage composes the postcard email. imageURL must already be
// absolute.
func postcardMessage(to, name, imageURL string) (Message, error) {
	if name == "" {
		name = "there"
	}

	var html bytes.Buffer
	if err := postcardHTMLTmpl.Execute(&html, struct{ Name, ImageURL string }{name, imageURL}); err != nil {
		return Message{}, fmt.Errorf("email: render postcard template: %w", err)
	}

	text := fmt.Sprintf("Hi %s,\n\nSomeone sent you a postcard through Giftie. View it here:\n%s\n", name, imageURL)

	return Message{
		To:       to,
		Subject:  postcardSubject,
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}

func testMessage(to string) Message {
	return Message{
		To:       to,
		Subject:  testSubject,
		TextBody: testText,
		HTMLBody: testHTML,
	}
}
