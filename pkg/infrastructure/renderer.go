package infrastructure

import (
	"context"
	"fmt"
)

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

const (
	EngineChromedp   = "chromedp"
	EnginePlaywright = "playwright"
)

// NewRenderer returns the PDF renderer for the named engine.
func NewRenderer(engine string, opts RenderOptions) (PDFRenderer, error) {
	switch engine {
	case "", EngineChromedp:
		return NewChromedpRenderer(opts), nil
	case EnginePlaywright:
		return NewPlaywrightRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unknown render engine %q", engine)
	}
}
