package domain

import "maps"

// SnapshotProperties are the inline style properties captured before an
// export and overridden during it.
var SnapshotProperties = []string{
	"background-color",
	"color",
	"padding",
	"margin",
	"border-radius",
	"border",
	"box-shadow",
}

// PrintOverrides is the print-friendly inline style applied to the target
// element for the duration of an export.
var PrintOverrides = map[string]string{
	"background-color": "#ffffff",
	"color":            "#000000",
	"padding":          "20px",
	"margin":           "0",
	"border-radius":    "0",
	"border":           "none",
	"box-shadow":       "none",
}

// HeaderState is the visibility of the page header. Display holds the
// inline display value; "" means the stylesheet decides.
type HeaderState struct {
	Present bool
	Display string
}

// StyleSnapshot is the pre-export style state of the target element and the
// page header. It is immutable once captured.
type StyleSnapshot struct {
	styles map[string]string
	header HeaderState
}

func NewStyleSnapshot(styles map[string]string, header HeaderState) StyleSnapshot {
	out := make(map[string]string, len(SnapshotProperties))
	for _, p := range SnapshotProperties {
		out[p] = styles[p]
	}
	return StyleSnapshot{styles: out, header: header}
}

// EmptyStyleSnapshot resets every captured property and the header display
// to the empty string. Used for rollback when no snapshot was captured.
func EmptyStyleSnapshot() StyleSnapshot {
	return NewStyleSnapshot(nil, HeaderState{Present: true})
}

// Styles returns a copy of the captured properties.
func (s StyleSnapshot) Styles() map[string]string {
	return maps.Clone(s.styles)
}

func (s StyleSnapshot) Style(prop string) string { return s.styles[prop] }

func (s StyleSnapshot) Header() HeaderState { return s.header }

// IsZero reports whether s was never captured.
func (s StyleSnapshot) IsZero() bool { return s.styles == nil }

func (s StyleSnapshot) Equal(o StyleSnapshot) bool {
	return s.header == o.header && maps.Equal(s.styles, o.styles)
}
