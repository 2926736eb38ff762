package infrastructure

import (
	"context"
	"fmt"
	"os"
)

// Clip is a rectangle in CSS pixels of the page.
type Clip struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PrintParams are the page settings for vector print output, in inches.
type PrintParams struct {
	PaperWidth   float64
	PaperHeight  float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	Landscape    bool
}

// Driver is the part of a browser automation library the exporter needs.
// A driver owns one long-lived tab, the live document.
type Driver interface {
	// Open starts the browser if needed and loads url in the live tab.
	Open(ctx context.Context, url string) error
	// EvalString evaluates a JS expression that yields a string.
	EvalString(ctx context.Context, expr string) (string, error)
	// Capture takes a screenshot of clip. format is "jpeg" or "png";
	// quality is 0-100 and only used for jpeg.
	Capture(ctx context.Context, clip Clip, scale float64, format string, quality int) ([]byte, error)
	// PrintHTML prints a standalone HTML document in a scratch tab.
	PrintHTML(ctx context.Context, html string, p PrintParams) ([]byte, error)
	Close() error
}

// BrowserConfig selects and configures a driver.
type BrowserConfig struct {
	Driver       string
	ChromePath   string
	Headless     bool
	WindowWidth  int
	WindowHeight int
}

const (
	DriverChromedp = "chromedp"
	DriverRod      = "rod"
)

// NewDriver returns the driver named by cfg.Driver. CHROME_PATH is honoured
// when no explicit path is configured.
func NewDriver(cfg BrowserConfig) (Driver, error) {
	if cfg.ChromePath == "" {
		cfg.ChromePath = os.Getenv("CHROME_PATH")
	}
	if cfg.WindowWidth == 0 {
		cfg.WindowWidth = 794
	}
	if cfg.WindowHeight == 0 {
		cfg.WindowHeight = 1123
	}
	switch cfg.Driver {
	case "", DriverChromedp:
		return NewChromedpDriver(cfg), nil
	case DriverRod:
		return NewRodDriver(cfg), nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", cfg.Driver)
	}
}
