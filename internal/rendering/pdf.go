package rendering

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-agent/internal/fetch"
)

// DefaultPDFTimeout bounds one browser render
const DefaultPDFTimeout = 30 * time.Second

// US Letter in inches
const (
	paperWidth  = 8.5
	paperHeight = 11.0
)

// PDFRenderer prints HTML to PDF in headless Chrome
type PDFRenderer struct {
	Timeout time.Duration
}

// NewPDFRenderer creates a renderer with the default timeout
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Timeout: DefaultPDFTimeout}
}

// PDF renders html (a fragment or full document) as a Letter-size PDF.
// Requires Chrome/Chromium on the host.
func (r *PDFRenderer) PDF(ctx context.Context, html string) ([]byte, error) {
	document, err := Document(html)
	if err != nil {
		return nil, err
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, fetch.BrowserAllocatorOptions()...)
	defer cancel()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "browser PDF generation failed", Cause: err}
	}

	log.Printf("[rendering] printed %d byte PDF in %v", len(pdf), time.Since(start).Round(time.Millisecond))
	return pdf, nil
}
