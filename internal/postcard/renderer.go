package postcard

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	viewportWidth  = 600
	viewportHeight = 400
	deviceScale    = 2.0
)

// Renderer turns an HTML document into PNG bytes. Tests inject a stub.
type Renderer interface {
	Screenshot(ctx context.Context, html string) ([]byte, error)
}

// chromeRenderer drives a headless Chrome through the DevTools protocol.
type chromeRenderer struct {
	execPath string
}

// NewChromeRenderer returns a Renderer that launches a fresh headless Chrome
// per call. execPath may be empty to let chromedp find the browser.
func NewChromeRenderer(execPath string) Renderer {
	return &chromeRenderer{execPath: execPath}
}

// Screenshot loads html into a blank page sized 600×400 at scale factor 2 and
// captures the full page as PNG. The browser is torn down before returning,
// whatever the outcome.
func (r *chromeRenderer) Screenshot(ctx context.Context, html string) ([]byte, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(deviceScale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("postcard: chrome screenshot: %w", err)
	}
	return buf, nil
}
