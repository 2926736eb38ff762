package domain

// Render modes understood by the renderer.
const (
	// RenderModeRaster captures the element as an image and paginates it
	// into the document.
	RenderModeRaster = "raster"
	// RenderModePrint copies the element into a scratch tab and uses the
	// browser's vector print output.
	RenderModePrint = "print"
)

// Margins in millimetres.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

type ImageOptions struct {
	Type    string  `json:"type" yaml:"type"`
	Quality float64 `json:"quality" yaml:"quality"`
}

type PageOptions struct {
	Format      string `json:"format" yaml:"format"`
	Orientation string `json:"orientation" yaml:"orientation"`
	Unit        string `json:"unit" yaml:"unit"`
}

// PageBreakOptions tells the renderer which elements must not be split
// across pages.
type PageBreakOptions struct {
	Modes []string `json:"modes" yaml:"modes"`
	Avoid []string `json:"avoid" yaml:"avoid"`
}

// ExportOptions is the rendering contract handed to the renderer.
type ExportOptions struct {
	Mode         string           `json:"mode" yaml:"mode"`
	Margin       Margins          `json:"margin" yaml:"margin"`
	Image        ImageOptions     `json:"image" yaml:"image"`
	Scale        float64          `json:"scale" yaml:"scale"`
	UseCORS      bool             `json:"useCORS" yaml:"use_cors"`
	WindowWidth  int              `json:"windowWidth" yaml:"window_width"`
	WindowHeight int              `json:"windowHeight" yaml:"window_height"`
	DPI          int              `json:"dpi" yaml:"dpi"`
	Page         PageOptions      `json:"page" yaml:"page"`
	PageBreak    PageBreakOptions `json:"pagebreak" yaml:"pagebreak"`
	Compress     bool             `json:"compress" yaml:"compress"`
}

// DefaultExportOptions is an A4 portrait page at 96 DPI rendered at twice
// the device resolution.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Mode:         RenderModeRaster,
		Margin:       Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
		Image:        ImageOptions{Type: "jpeg", Quality: 0.98},
		Scale:        2,
		UseCORS:      true,
		WindowWidth:  794,
		WindowHeight: 1123,
		DPI:          96,
		Page:         PageOptions{Format: "a4", Orientation: "portrait", Unit: "mm"},
		PageBreak: PageBreakOptions{
			Modes: []string{"avoid-all", "css"},
			Avoid: []string{".avoid-page-break", ".resume-section", "h2", "h3"},
		},
		Compress: true,
	}
}

// PageSizeMM returns the page width and height in millimetres for the
// configured format and orientation.
func (o ExportOptions) PageSizeMM() (float64, float64) {
	w, h := 210.0, 297.0
	switch o.Page.Format {
	case "letter":
		w, h = 215.9, 279.4
	case "legal":
		w, h = 215.9, 355.6
	case "a5":
		w, h = 148, 210
	case "a3":
		w, h = 297, 420
	}
	if o.Page.Orientation == "landscape" {
		w, h = h, w
	}
	return w, h
}

// ContentSizeMM is the page size minus margins.
func (o ExportOptions) ContentSizeMM() (float64, float64) {
	w, h := o.PageSizeMM()
	return w - o.Margin.Left - o.Margin.Right, h - o.Margin.Top - o.Margin.Bottom
}

// AvoidAll reports whether every element should be kept whole.
func (o ExportOptions) AvoidAll() bool {
	for _, m := range o.PageBreak.Modes {
		if m == "avoid-all" {
			return true
		}
	}
	return false
}
