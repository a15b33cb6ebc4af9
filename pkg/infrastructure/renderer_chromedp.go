package infrastructure

import (
	"context"
	"time"

	"resume-builder/internal/domain"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// A4 with 20px margins. CSS pixels are 1/96 inch.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 20.0 / 96.0
)

// RenderOptions configures a headless-browser PDF renderer.
type RenderOptions struct {
	// ExecPath overrides the browser executable. Empty means autodetect.
	ExecPath string
	// Timeout bounds one whole render: launch, content load and capture.
	Timeout time.Duration
	// IdleQuiet is how long the page must have no requests in flight before
	// it is considered loaded.
	IdleQuiet time.Duration
	// MaxConcurrent limits simultaneous browser processes.
	MaxConcurrent int
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.IdleQuiet <= 0 {
		o.IdleQuiet = 500 * time.Millisecond
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 2
	}
	return o
}

// ChromedpRenderer prints HTML to PDF with a fresh Chrome process per call.
type ChromedpRenderer struct {
	opts RenderOptions
	sem  *semaphore.Weighted
}

func NewChromedpRenderer(opts RenderOptions) *ChromedpRenderer {
	opts = opts.withDefaults()
	return &ChromedpRenderer{opts: opts, sem: semaphore.NewWeighted(int64(opts.MaxConcurrent))}
}

func (r *ChromedpRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}
	return opts
}

// RenderHTMLToPDF loads html into a blank page, waits for the network to go
// quiet and prints the page. The browser process is torn down before
// returning on every path, including cancellation of ctx.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, &domain.RenderError{Stage: "queue", Err: err}
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	started := time.Now()

	// an empty Run starts the browser
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, &domain.RenderError{Stage: "launch", Err: err}
	}
	log.Debug().Dur("took", time.Since(started)).Msg("chromedp: browser started")

	tracker := newNetworkTracker()
	chromedp.ListenTarget(browserCtx, tracker.handle)

	err := chromedp.Run(browserCtx,
		network.Enable(),
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
			return tracker.waitIdle(ctx, r.opts.IdleQuiet)
		}),
	)
	if err != nil {
		return nil, &domain.RenderError{Stage: "load", Err: err}
	}

	var pdfBuf []byte
	err = chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdfBuf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4WidthInches).
			WithPaperHeight(a4HeightInches).
			WithMarginTop(marginInches).
			WithMarginBottom(marginInches).
			WithMarginLeft(marginInches).
			WithMarginRight(marginInches).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, &domain.RenderError{Stage: "print", Err: err}
	}

	log.Debug().Dur("took", time.Since(started)).Int("bytes", len(pdfBuf)).Msg("chromedp: pdf printed")
	return pdfBuf, nil
}
