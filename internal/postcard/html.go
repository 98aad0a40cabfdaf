package postcard

import (
	"bytes"
	"fmt"
	"html/template"
)

// ─── HTML DOCUMENTS ───────────────────────────────────────────────────────────

var giftCardTmpl = template.Must(template.New("gift").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; padding: 40px;">
  <h2>Dear {{.Recipient}},</h2>
  <p>We thought you'd love this gift:</p>
  <h3>{{.Gift}}</h3>
  <p>From your Giftie app 🎁</p>
</body>
</html>`))

var styledTmpl = template.Must(template.New("styled").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <link href="https://fonts.googleapis.com/css2?family=Quicksand:wght@500&display=swap" rel="stylesheet">
  <style>
    body {
      font-family: 'Quicksand', sans-serif;
      background: {{.Background}};
      width: 600px;
      height: 400px;
      margin: 0;
      position: relative;
      padding: 40px;
      box-sizing: border-box;
      display: flex;
      flex-direction: column;
      align-items: center;
      justify-content: center;
      text-align: center;
    }
    .image-decor {
      position: absolute;
      top: 0;
      left: 0;
      width: 600px;
      height: 400px;
      opacity: 0.2;
      z-index: 0;
    }
    .content { z-index: 1; }
    h1 { font-size: 28px; margin-bottom: 10px; }
    p { font-size: 18px; color: #333; }
  </style>
</head>
<body>
  <img class="image-decor" src="{{.Theme.ImageURL}}" alt="">
  <div class="content">
    <h1>{{.Theme.Emoji}} Dear {{.Recipient}},</h1>
    <p>{{.Message}}</p>
    <p style="margin-top: 20px;">From your Giftie app 🎁</p>
  </div>
</body>
</html>`))

// GiftCard returns the simple "we thought you'd love this gift" document.
func GiftCard(recipient, gift string) (string, error) {
	return execute(giftCardTmpl, struct{ Recipient, Gift string }{recipient, gift})
}

// Styled returns the themed postcard document. Recipient and message are
// HTML-escaped.
func Styled(recipient, message string, theme Theme) (string, error) {
	return execute(styledTmpl, struct {
		Recipient  string
		Message    string
		Theme      Theme
		Background template.CSS
	}{recipient, message, theme, template.CSS(theme.Background)})
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("postcard: execute %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
