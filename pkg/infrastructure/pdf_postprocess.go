package infrastructure

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise write its config into the user's config dir
	api.DisableConfigDir()
}

// FinishPDF checks that data is a readable PDF with at least one page and,
// when compress is set, rewrites it optimized.
func FinishPDF(data []byte, compress bool) ([]byte, int, error) {
	if len(data) < 5 || !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, 0, fmt.Errorf("invalid PDF output (len=%d)", len(data))
	}

	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, 0, fmt.Errorf("pdfcpu validate: %w", err)
	}

	out := data
	if compress {
		var buf bytes.Buffer
		if err := api.Optimize(bytes.NewReader(data), &buf, conf); err != nil {
			return nil, 0, fmt.Errorf("pdfcpu optimize: %w", err)
		}
		// keep the original if optimizing did not help
		if buf.Len() > 0 && buf.Len() < len(data) {
			out = buf.Bytes()
		}
	}

	pages, err := api.PageCount(bytes.NewReader(out), conf)
	if err != nil {
		return nil, 0, fmt.Errorf("pdfcpu page count: %w", err)
	}
	if pages == 0 {
		return nil, 0, fmt.Errorf("rendered PDF has no pages")
	}
	return out, pages, nil
}
