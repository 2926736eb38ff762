package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"

	"portfolio/internal/domain"
	"portfolio/internal/usecase"

	"github.com/sirupsen/logrus"
)

const mmPerInch = 25.4

// BrowserRenderer renders an element of the live tab into a PDF and hands
// it to the sink. It is a one-shot builder.
type BrowserRenderer struct {
	doc  *BrowserDocument
	drv  Driver
	sink usecase.ArtifactSink
	log  logrus.FieldLogger

	elementID string
	opts      domain.ExportOptions
}

func (r *BrowserRenderer) From(id string) usecase.RenderBuilder {
	r.elementID = id
	return r
}

func (r *BrowserRenderer) Set(opts domain.ExportOptions) usecase.RenderBuilder {
	r.opts = opts
	return r
}

func (r *BrowserRenderer) Save(ctx context.Context, filename string) error {
	if r.elementID == "" {
		return errors.New("renderer: no source element")
	}
	var (
		raw []byte
		err error
	)
	switch r.opts.Mode {
	case domain.RenderModePrint:
		raw, err = r.renderPrint(ctx)
	default:
		raw, err = r.renderRaster(ctx, filename)
	}
	if err != nil {
		return err
	}

	data, pages, err := FinishPDF(raw, r.opts.Compress)
	if err != nil {
		return err
	}
	a, err := r.sink.Deliver(ctx, filename, data)
	if err != nil {
		return fmt.Errorf("deliver %s: %w", filename, err)
	}
	r.log.WithFields(logrus.Fields{"artifact": a.Path, "bytes": a.Size, "pages": pages}).Info("pdf saved")
	return nil
}

func (r *BrowserRenderer) renderRaster(ctx context.Context, title string) ([]byte, error) {
	layout, err := r.doc.Layout(ctx, r.elementID, r.avoidSelectors())
	if err != nil {
		return nil, fmt.Errorf("measure element: %w", err)
	}
	if layout.Clip.Width <= 0 || layout.Clip.Height <= 0 {
		return nil, fmt.Errorf("element %s has no visible area", r.elementID)
	}

	contentW, contentH := r.opts.ContentSizeMM()
	// the element is scaled to fill the content width
	pxPerMM := layout.Clip.Width / contentW
	pageHeightPx := contentH * pxPerMM

	scale := r.opts.Scale
	if scale <= 0 {
		scale = 1
	}
	quality := int(math.Round(r.opts.Image.Quality * 100))
	if quality <= 0 || quality > 100 {
		quality = 92
	}

	slices := PlanPages(layout.Clip.Height, pageHeightPx, layout.Avoid)
	pages := make([]RasterPage, 0, len(slices))
	for _, s := range slices {
		clip := Clip{X: layout.Clip.X, Y: layout.Clip.Y + s.Top, Width: layout.Clip.Width, Height: s.Height()}
		img, err := r.drv.Capture(ctx, clip, scale, r.opts.Image.Type, quality)
		if err != nil {
			return nil, fmt.Errorf("capture page: %w", err)
		}
		pages = append(pages, RasterPage{Image: img, Width: clip.Width, Height: clip.Height})
	}
	return AssembleRasterPDF(title, r.opts, pxPerMM, pages)
}

func (r *BrowserRenderer) renderPrint(ctx context.Context) ([]byte, error) {
	st, err := r.doc.Standalone(ctx, r.elementID)
	if err != nil {
		return nil, fmt.Errorf("copy element: %w", err)
	}
	w, h := r.opts.PageSizeMM()
	landscape := r.opts.Page.Orientation == "landscape"
	if landscape {
		// Chrome wants portrait paper plus the landscape flag
		w, h = h, w
	}
	return r.drv.PrintHTML(ctx, StandaloneHTML(st, r.avoidSelectors()), PrintParams{
		PaperWidth:   w / mmPerInch,
		PaperHeight:  h / mmPerInch,
		MarginTop:    r.opts.Margin.Top / mmPerInch,
		MarginRight:  r.opts.Margin.Right / mmPerInch,
		MarginBottom: r.opts.Margin.Bottom / mmPerInch,
		MarginLeft:   r.opts.Margin.Left / mmPerInch,
		Landscape:    landscape,
	})
}

func (r *BrowserRenderer) avoidSelectors() []string {
	sel := append([]string(nil), r.opts.PageBreak.Avoid...)
	if r.opts.AvoidAll() {
		sel = append(sel, "img", "li", "p", "tr")
	}
	return sel
}

// StandaloneHTML rebuilds a copied element as its own document with
// page-break hints for the avoid selectors.
func StandaloneHTML(st Standalone, avoid []string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html")
	if st.Lang != "" {
		b.WriteString(` lang="` + html.EscapeString(st.Lang) + `"`)
	}
	b.WriteString(`><head><meta charset="utf-8">`)
	if st.Base != "" {
		b.WriteString(`<base href="` + html.EscapeString(st.Base) + `">`)
	}
	b.WriteString("<style>")
	b.WriteString(strings.ReplaceAll(st.CSS, "</style", "<\\/style"))
	b.WriteString("</style>")
	if len(avoid) > 0 {
		b.WriteString("<style>")
		b.WriteString(strings.Join(avoid, ", "))
		b.WriteString(" { break-inside: avoid; page-break-inside: avoid; }")
		b.WriteString("</style>")
	}
	b.WriteString("</head><body>")
	b.WriteString(st.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

// BrowserRendererProvider hands out renderers bound to the live tab. Load
// fails when the tab is not reachable.
type BrowserRendererProvider struct {
	doc  *BrowserDocument
	drv  Driver
	sink usecase.ArtifactSink
	log  logrus.FieldLogger
}

func NewBrowserRendererProvider(drv Driver, doc *BrowserDocument, sink usecase.ArtifactSink, log logrus.FieldLogger) *BrowserRendererProvider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BrowserRendererProvider{doc: doc, drv: drv, sink: sink, log: log}
}

func (p *BrowserRendererProvider) Load(ctx context.Context) (usecase.RendererFactory, error) {
	if p.drv == nil || p.doc == nil || p.sink == nil {
		return nil, errors.New("renderer: browser renderer not configured")
	}
	pong, err := p.drv.EvalString(ctx, `"ok"`)
	if err != nil {
		return nil, fmt.Errorf("renderer: browser unreachable: %w", err)
	}
	if pong != "ok" {
		return nil, fmt.Errorf("renderer: unexpected browser reply %q", pong)
	}
	return func() usecase.RenderBuilder {
		return &BrowserRenderer{doc: p.doc, drv: p.drv, sink: p.sink, log: p.log}
	}, nil
}
