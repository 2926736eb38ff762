package infrastructure

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpDriver keeps one headless Chrome with the live tab open.
type ChromedpDriver struct {
	cfg BrowserConfig

	mu          sync.Mutex
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

func NewChromedpDriver(cfg BrowserConfig) *ChromedpDriver { return &ChromedpDriver{cfg: cfg} }

func (d *ChromedpDriver) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(d.cfg.WindowWidth, d.cfg.WindowHeight),
	)
	if d.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(d.cfg.ChromePath))
	}
	return opts
}

func (d *ChromedpDriver) Open(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tabCtx == nil {
		// The browser outlives the caller's context; it is torn down by Close.
		allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), d.allocatorOptions()...)
		tabCtx, tabCancel := chromedp.NewContext(allocCtx)
		// the first Run starts Chrome and must not carry a deadline
		if err := chromedp.Run(tabCtx); err != nil {
			tabCancel()
			allocCancel()
			return err
		}
		d.allocCancel, d.tabCtx, d.tabCancel = allocCancel, tabCtx, tabCancel
	}

	runCtx, cancel := context.WithTimeout(d.tabCtx, 60*time.Second)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// do runs actions against the live tab under the caller's context.
func (d *ChromedpDriver) do(ctx context.Context, actions ...chromedp.Action) error {
	d.mu.Lock()
	tabCtx := d.tabCtx
	d.mu.Unlock()
	if tabCtx == nil {
		return errors.New("chromedp: browser not started")
	}
	c := chromedp.FromContext(tabCtx)
	if c == nil || c.Target == nil {
		return errors.New("chromedp: no live tab")
	}
	exCtx := cdp.WithExecutor(ctx, c.Target)
	for _, a := range actions {
		if err := a.Do(exCtx); err != nil {
			return err
		}
	}
	return nil
}

func (d *ChromedpDriver) EvalString(ctx context.Context, expr string) (string, error) {
	var out string
	err := d.do(ctx, chromedp.Evaluate(expr, &out))
	return out, err
}

func (d *ChromedpDriver) Capture(ctx context.Context, clip Clip, scale float64, format string, quality int) ([]byte, error) {
	var buf []byte
	err := d.do(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		shot := page.CaptureScreenshot().
			WithClip(&page.Viewport{X: clip.X, Y: clip.Y, Width: clip.Width, Height: clip.Height, Scale: scale}).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true)
		if format == "png" {
			shot = shot.WithFormat(page.CaptureScreenshotFormatPng)
		} else {
			shot = shot.WithFormat(page.CaptureScreenshotFormatJpeg).WithQuality(int64(quality))
		}
		var err error
		buf, err = shot.Do(ctx)
		return err
	}))
	return buf, err
}

// PrintHTML opens a scratch tab in the same browser so the live tab is not
// touched.
func (d *ChromedpDriver) PrintHTML(ctx context.Context, html string, p PrintParams) ([]byte, error) {
	d.mu.Lock()
	tabCtx := d.tabCtx
	d.mu.Unlock()
	if tabCtx == nil {
		return nil, errors.New("chromedp: browser not started")
	}

	scratch, cancel := chromedp.NewContext(tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdfBuf []byte
	err := chromedp.Run(scratch,
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
			var err error
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(p.PaperWidth).
				WithPaperHeight(p.PaperHeight).
				WithMarginTop(p.MarginTop).
				WithMarginRight(p.MarginRight).
				WithMarginBottom(p.MarginBottom).
				WithMarginLeft(p.MarginLeft).
				WithLandscape(p.Landscape).
				WithPreferCSSPageSize(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

func (d *ChromedpDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tabCancel != nil {
		d.tabCancel()
	}
	if d.allocCancel != nil {
		d.allocCancel()
	}
	d.tabCtx, d.tabCancel, d.allocCancel = nil, nil, nil
	return nil
}
