package usecase

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"portfolio/internal/domain"
)

type fakeElement struct {
	styles  map[string]string
	classes []string
}

// fakeDocument is an in-memory page with one optional header.
type fakeDocument struct {
	mu          sync.Mutex
	elements    map[string]*fakeElement
	header      *string
	calls       []string
	failCapture error
}

func newFakeDocument() *fakeDocument {
	header := "flex"
	return &fakeDocument{
		elements: map[string]*fakeElement{
			"resume-content": {
				styles:  map[string]string{"background-color": "rgb(17, 24, 39)", "color": "#e5e7eb", "padding": "2rem", "border-radius": "12px"},
				classes: []string{"resume"},
			},
		},
		header: &header,
	}
}

type pageState struct {
	styles  map[string]string
	classes []string
	header  string
	hasHdr  bool
}

func (d *fakeDocument) state(id string) pageState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := pageState{}
	if el, ok := d.elements[id]; ok {
		st.styles = maps.Clone(el.styles)
		st.classes = slices.Clone(el.classes)
	}
	if d.header != nil {
		st.hasHdr = true
		st.header = *d.header
	}
	return st
}

func (d *fakeDocument) record(call string) {
	d.calls = append(d.calls, call)
}

func (d *fakeDocument) element(id string) (*fakeElement, error) {
	el, ok := d.elements[id]
	if !ok {
		return nil, errors.New("no element " + id)
	}
	return el, nil
}

func (d *fakeDocument) HasElement(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("has")
	_, ok := d.elements[id]
	return ok, nil
}

func (d *fakeDocument) CaptureStyles(_ context.Context, id string, props []string) (map[string]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("capture")
	if d.failCapture != nil {
		return nil, d.failCapture
	}
	el, err := d.element(id)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, p := range props {
		out[p] = el.styles[p]
	}
	return out, nil
}

func (d *fakeDocument) ApplyStyles(_ context.Context, id string, styles map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("apply")
	el, err := d.element(id)
	if err != nil {
		return err
	}
	for k, v := range styles {
		if v == "" {
			delete(el.styles, k)
			continue
		}
		el.styles[k] = v
	}
	return nil
}

func (d *fakeDocument) HeaderDisplay(context.Context) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.header == nil {
		return "", false, nil
	}
	return *d.header, true, nil
}

func (d *fakeDocument) SetHeaderDisplay(_ context.Context, display string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("header:" + display)
	if d.header != nil {
		*d.header = display
	}
	return nil
}

func (d *fakeDocument) AddClass(_ context.Context, id, class string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.element(id)
	if err != nil {
		return err
	}
	if !slices.Contains(el.classes, class) {
		el.classes = append(el.classes, class)
	}
	return nil
}

func (d *fakeDocument) RemoveClass(_ context.Context, id, class string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.element(id)
	if err != nil {
		return err
	}
	el.classes = slices.DeleteFunc(el.classes, func(c string) bool { return c == class })
	return nil
}

func (d *fakeDocument) HasClass(_ context.Context, id, class string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, err := d.element(id)
	if err != nil {
		return false, err
	}
	return slices.Contains(el.classes, class), nil
}

// fakeBuilder records what the engine asked for and what the page looked
// like at save time.
type fakeBuilder struct {
	doc     *fakeDocument
	saveErr error
	panicV  any

	mu        sync.Mutex
	saves     int
	elementID string
	opts      domain.ExportOptions
	filename  string
	atSave    pageState
}

func (b *fakeBuilder) From(id string) RenderBuilder {
	b.mu.Lock()
	b.elementID = id
	b.mu.Unlock()
	return b
}

func (b *fakeBuilder) Set(o domain.ExportOptions) RenderBuilder {
	b.mu.Lock()
	b.opts = o
	b.mu.Unlock()
	return b
}

func (b *fakeBuilder) Save(_ context.Context, filename string) error {
	b.mu.Lock()
	b.saves++
	b.filename = filename
	b.mu.Unlock()
	if b.doc != nil {
		st := b.doc.state(b.elementID)
		b.mu.Lock()
		b.atSave = st
		b.mu.Unlock()
	}
	if b.panicV != nil {
		panic(b.panicV)
	}
	return b.saveErr
}

func (b *fakeBuilder) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

type fakeProvider struct {
	builder *fakeBuilder
	err     error
	nilFn   bool
	loads   int
}

func (p *fakeProvider) Load(context.Context) (RendererFactory, error) {
	p.loads++
	if p.err != nil {
		return nil, p.err
	}
	if p.nilFn {
		return nil, nil
	}
	return func() RenderBuilder { return p.builder }, nil
}
