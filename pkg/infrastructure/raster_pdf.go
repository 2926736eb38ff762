package infrastructure

import (
	"bytes"
	"fmt"
	"math"

	"portfolio/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// PageSlice is a vertical band of the element, in CSS pixels from its top.
type PageSlice struct {
	Top    float64
	Bottom float64
}

func (s PageSlice) Height() float64 { return s.Bottom - s.Top }

// minSliceFraction keeps a cut from moving so far up that a page is almost
// empty; an element taller than a page is split anyway.
const minSliceFraction = 0.25

// PlanPages splits an element of the given height into page-sized bands.
// A cut that would fall inside one of the avoid ranges is moved up to the
// top of that range.
func PlanPages(height, pageHeight float64, avoid [][2]float64) []PageSlice {
	if height <= 0 {
		return nil
	}
	if pageHeight <= 0 {
		return []PageSlice{{Top: 0, Bottom: height}}
	}
	var out []PageSlice
	top := 0.0
	for top < height {
		cut := top + pageHeight
		if cut >= height {
			out = append(out, PageSlice{Top: top, Bottom: height})
			break
		}
		best := cut
		for _, r := range avoid {
			if r[0] < best && r[1] > cut && r[0]-top >= pageHeight*minSliceFraction {
				best = r[0]
			}
		}
		out = append(out, PageSlice{Top: top, Bottom: best})
		top = best
	}
	return out
}

// RasterPage is one captured band ready to be placed on a page.
type RasterPage struct {
	Image  []byte
	Width  float64
	Height float64
}

// AssembleRasterPDF lays out captured bands one per page inside the
// margins. Band sizes are in CSS pixels; pxPerMM converts them.
func AssembleRasterPDF(title string, opts domain.ExportOptions, pxPerMM float64, pages []RasterPage) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}
	if pxPerMM <= 0 || math.IsNaN(pxPerMM) {
		return nil, fmt.Errorf("invalid page scale %v", pxPerMM)
	}

	// the size is already oriented
	w, h := opts.PageSizeMM()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(opts.Margin.Left, opts.Margin.Top, opts.Margin.Right)
	pdf.SetAutoPageBreak(false, opts.Margin.Bottom)
	pdf.SetCompression(opts.Compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("portfolio", true)

	imgType := "JPG"
	if opts.Image.Type == "png" {
		imgType = "PNG"
	}
	for i, p := range pages {
		pdf.AddPage()
		name := fmt.Sprintf("page-%d", i+1)
		imgOpts := gofpdf.ImageOptions{ImageType: imgType}
		pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(p.Image))
		pdf.ImageOptions(name, opts.Margin.Left, opts.Margin.Top, p.Width/pxPerMM, p.Height/pxPerMM, false, imgOpts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
