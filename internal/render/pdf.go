package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFContentType is the MIME type of converted documents.
const PDFContentType = "application/pdf"

// A4 in inches and 12mm margins, as expected by Page.printToPDF.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
	marginIn   = 12.0 / 25.4
)

// ChromePDFConverter prints HTML to PDF with a headless Chromium.
type ChromePDFConverter struct {
	execPath string
	timeout  time.Duration
}

// NewChromePDFConverter creates a converter. An empty execPath lets chromedp
// locate the browser on PATH.
func NewChromePDFConverter(execPath string, timeout time.Duration) *ChromePDFConverter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromePDFConverter{execPath: execPath, timeout: timeout}
}

// Convert renders html on an A4 page with 12mm margins and backgrounds.
// Each call runs its own short-lived browser.
func (c *ChromePDFConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: print pdf: %v", ErrRenderFailure, err)
	}
	return pdf, nil
}
