package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodDriver is the go-rod implementation of Driver.
type RodDriver struct {
	cfg BrowserConfig

	mu      sync.Mutex
	lnch    *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
}

func NewRodDriver(cfg BrowserConfig) *RodDriver { return &RodDriver{cfg: cfg} }

func (d *RodDriver) launch() error {
	l := launcher.New().
		Headless(d.cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("window-size", fmt.Sprintf("%d,%d", d.cfg.WindowWidth, d.cfg.WindowHeight))
	if d.cfg.ChromePath != "" {
		l = l.Bin(d.cfg.ChromePath)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("browser: launch: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("browser: connect: %w", err)
	}
	d.lnch, d.browser = l, b
	return nil
}

func (d *RodDriver) Open(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser == nil {
		if err := d.launch(); err != nil {
			return err
		}
	}
	navCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if d.page == nil {
		p, err := d.browser.Page(proto.TargetCreateTarget{URL: ""})
		if err != nil {
			return fmt.Errorf("browser: create tab: %w", err)
		}
		d.page = p
	}
	if err := d.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := d.page.Context(navCtx).WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", url, err)
	}
	return nil
}

func (d *RodDriver) live() (*rod.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.page == nil {
		return nil, errors.New("rod: browser not started")
	}
	return d.page, nil
}

func (d *RodDriver) EvalString(ctx context.Context, expr string) (string, error) {
	p, err := d.live()
	if err != nil {
		return "", err
	}
	res, err := p.Context(ctx).Eval(`() => ` + expr)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (d *RodDriver) Capture(ctx context.Context, clip Clip, scale float64, format string, quality int) ([]byte, error) {
	p, err := d.live()
	if err != nil {
		return nil, err
	}
	req := &proto.PageCaptureScreenshot{
		Clip: &proto.PageViewport{
			X: clip.X, Y: clip.Y, Width: clip.Width, Height: clip.Height, Scale: scale,
		},
		FromSurface:           true,
		CaptureBeyondViewport: true,
	}
	if format == "png" {
		req.Format = proto.PageCaptureScreenshotFormatPng
	} else {
		req.Format = proto.PageCaptureScreenshotFormatJpeg
		req.Quality = &quality
	}
	return p.Context(ctx).Screenshot(false, req)
}

func (d *RodDriver) PrintHTML(ctx context.Context, html string, pp PrintParams) ([]byte, error) {
	d.mu.Lock()
	b := d.browser
	d.mu.Unlock()
	if b == nil {
		return nil, errors.New("rod: browser not started")
	}

	scratch, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("browser: create scratch tab: %w", err)
	}
	defer scratch.Close()
	scratch = scratch.Context(ctx)

	if err := scratch.SetDocumentContent(html); err != nil {
		return nil, err
	}
	if err := scratch.WaitLoad(); err != nil {
		return nil, err
	}
	r, err := scratch.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		Landscape:       pp.Landscape,
		PaperWidth:      &pp.PaperWidth,
		PaperHeight:     &pp.PaperHeight,
		MarginTop:       &pp.MarginTop,
		MarginRight:     &pp.MarginRight,
		MarginBottom:    &pp.MarginBottom,
		MarginLeft:      &pp.MarginLeft,
	})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (d *RodDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	if d.browser != nil {
		err = d.browser.Close()
	}
	if d.lnch != nil {
		d.lnch.Cleanup()
	}
	d.browser, d.page, d.lnch = nil, nil, nil
	return err
}
