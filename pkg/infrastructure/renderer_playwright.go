package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resume-builder/internal/domain"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// PlaywrightRenderer prints HTML to PDF through a Playwright-driven
// Chromium. The driver is started once and shared; each call launches and
// closes its own browser.
type PlaywrightRenderer struct {
	opts RenderOptions
	sem  *semaphore.Weighted

	mu sync.Mutex
	pw *playwright.Playwright
}

func NewPlaywrightRenderer(opts RenderOptions) *PlaywrightRenderer {
	opts = opts.withDefaults()
	return &PlaywrightRenderer{opts: opts, sem: semaphore.NewWeighted(int64(opts.MaxConcurrent))}
}

func (r *PlaywrightRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, &domain.RenderError{Stage: "queue", Err: err}
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	started := time.Now()

	pw, err := r.driver()
	if err != nil {
		return nil, &domain.RenderError{Stage: "launch", Err: fmt.Errorf("start playwright: %w", err)}
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Timeout:  playwright.Float(remainingMs(ctx)),
	}
	if r.opts.ExecPath != "" {
		launch.ExecutablePath = playwright.String(r.opts.ExecPath)
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		return nil, &domain.RenderError{Stage: "launch", Err: fmt.Errorf("launch chromium: %w", err)}
	}
	defer browser.Close()

	// playwright calls are not context aware; closing the browser unblocks
	// them when the caller goes away.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = browser.Close()
		case <-done:
		}
	}()

	pg, err := browser.NewPage()
	if err != nil {
		return nil, &domain.RenderError{Stage: "launch", Err: fmt.Errorf("new page: %w", err)}
	}
	defer pg.Close()

	if err := pg.SetContent(html, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(remainingMs(ctx)),
	}); err != nil {
		return nil, &domain.RenderError{Stage: "load", Err: withContextErr(ctx, err)}
	}

	margin := "20px"
	out, err := pg.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String(margin),
			Bottom: playwright.String(margin),
			Left:   playwright.String(margin),
			Right:  playwright.String(margin),
		},
	})
	if err != nil {
		return nil, &domain.RenderError{Stage: "print", Err: withContextErr(ctx, err)}
	}

	log.Debug().Dur("took", time.Since(started)).Int("bytes", len(out)).Msg("playwright: pdf printed")
	return out, nil
}

// withContextErr prefers the context error when the browser failed because
// ctx was cancelled underneath it.
func withContextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

// driver starts the Playwright driver on first use. A failed start is not
// cached so a later call can retry once the driver is installed.
func (r *PlaywrightRenderer) driver() (*playwright.Playwright, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pw != nil {
		return r.pw, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}
	r.pw = pw
	return pw, nil
}

// Close stops the shared driver. Renders after Close start a new one.
func (r *PlaywrightRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pw == nil {
		return nil
	}
	err := r.pw.Stop()
	r.pw = nil
	if err != nil {
		log.Warn().Err(err).Msg("playwright: stop failed")
	}
	return err
}

// remainingMs is the time left before ctx expires, in the milliseconds
// playwright timeouts take. At least 1ms so playwright does not read it as
// "no timeout".
func remainingMs(ctx context.Context) float64 {
	dl, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	ms := float64(time.Until(dl).Milliseconds())
	if ms < 1 {
		return 1
	}
	return ms
}
