package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// BrowserDocument is the live DOM of a driver's tab. All access goes
// through small JS expressions that return JSON strings.
type BrowserDocument struct {
	drv            Driver
	headerSelector string
}

func NewBrowserDocument(drv Driver, headerSelector string) *BrowserDocument {
	if headerSelector == "" {
		headerSelector = "header"
	}
	return &BrowserDocument{drv: drv, headerSelector: headerSelector}
}

// jsArgs renders Go values as a JS argument list.
func jsArgs(args ...any) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return "", err
		}
		parts[i] = string(b)
	}
	return strings.Join(parts, ", "), nil
}

// call evaluates fn applied to args and decodes its JSON result into out.
func (d *BrowserDocument) call(ctx context.Context, fn string, out any, args ...any) error {
	a, err := jsArgs(args...)
	if err != nil {
		return err
	}
	s, err := d.drv.EvalString(ctx, "("+fn+")("+a+")")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("decode page result: %w", err)
	}
	return nil
}

const jsGet = `function(id) {
	const el = document.getElementById(id);
	if (!el) { throw new Error("Element with ID " + id + " not found"); }
	return el;
}`

func withElement(body string) string {
	return `function(id, arg) {
	const el = (` + jsGet + `)(id);
	` + body + `
}`
}

var (
	jsHasElement = `function(id) { return JSON.stringify(document.getElementById(id) !== null); }`

	jsCaptureStyles = withElement(`const out = {};
	for (const p of arg) { out[p] = el.style.getPropertyValue(p); }
	return JSON.stringify(out);`)

	jsApplyStyles = withElement(`for (const [p, v] of Object.entries(arg)) {
		if (v === "") { el.style.removeProperty(p); } else { el.style.setProperty(p, v); }
	}
	if (el.getAttribute("style") === "") { el.removeAttribute("style"); }
	return "true";`)

	jsAddClass    = withElement(`el.classList.add(arg); return "true";`)
	jsRemoveClass = withElement(`el.classList.remove(arg); if (el.classList.length === 0) { el.removeAttribute("class"); } return "true";`)
	jsHasClass    = withElement(`return JSON.stringify(el.classList.contains(arg));`)

	jsHeaderDisplay = `function(sel) {
	const h = document.querySelector(sel);
	return JSON.stringify(h ? {present: true, display: h.style.display} : {present: false, display: ""});
}`

	jsSetHeaderDisplay = `function(sel, v) {
	const h = document.querySelector(sel);
	if (!h) { return "false"; }
	if (v === "") { h.style.removeProperty("display"); } else { h.style.display = v; }
	if (h.getAttribute("style") === "") { h.removeAttribute("style"); }
	return "true";
}`

	jsLayout = withElement(`const r = el.getBoundingClientRect();
	const top = r.top + window.scrollY;
	const avoid = [];
	const seen = new Set();
	for (const sel of arg.selectors) {
		for (const n of el.querySelectorAll(sel)) {
			if (seen.has(n)) { continue; }
			seen.add(n);
			const nr = n.getBoundingClientRect();
			avoid.push([nr.top + window.scrollY - top, nr.bottom + window.scrollY - top]);
		}
	}
	return JSON.stringify({
		clip: {x: r.left + window.scrollX, y: top, width: r.width, height: r.height},
		avoid: avoid
	});`)

	jsStandalone = withElement(`const css = [];
	for (const sheet of Array.from(document.styleSheets)) {
		try {
			css.push(Array.from(sheet.cssRules).map(r => r.cssText).join("\n"));
		} catch (e) {
			if (sheet.href) { css.push("@import url(" + JSON.stringify(sheet.href) + ");"); }
		}
	}
	return JSON.stringify({
		base: document.baseURI,
		lang: document.documentElement.lang || "",
		css: css.join("\n"),
		html: el.outerHTML
	});`)
)

func (d *BrowserDocument) HasElement(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := d.call(ctx, jsHasElement, &ok, id)
	return ok, err
}

func (d *BrowserDocument) CaptureStyles(ctx context.Context, id string, props []string) (map[string]string, error) {
	out := map[string]string{}
	if err := d.call(ctx, jsCaptureStyles, &out, id, props); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *BrowserDocument) ApplyStyles(ctx context.Context, id string, styles map[string]string) error {
	return d.call(ctx, jsApplyStyles, nil, id, styles)
}

func (d *BrowserDocument) HeaderDisplay(ctx context.Context) (string, bool, error) {
	var st struct {
		Present bool   `json:"present"`
		Display string `json:"display"`
	}
	if err := d.call(ctx, jsHeaderDisplay, &st, d.headerSelector); err != nil {
		return "", false, err
	}
	return st.Display, st.Present, nil
}

func (d *BrowserDocument) SetHeaderDisplay(ctx context.Context, display string) error {
	return d.call(ctx, jsSetHeaderDisplay, nil, d.headerSelector, display)
}

func (d *BrowserDocument) AddClass(ctx context.Context, id, class string) error {
	return d.call(ctx, jsAddClass, nil, id, class)
}

func (d *BrowserDocument) RemoveClass(ctx context.Context, id, class string) error {
	return d.call(ctx, jsRemoveClass, nil, id, class)
}

func (d *BrowserDocument) HasClass(ctx context.Context, id, class string) (bool, error) {
	var ok bool
	err := d.call(ctx, jsHasClass, &ok, id, class)
	return ok, err
}

// ElementLayout is the element's page rectangle and the vertical ranges,
// relative to the element's top, that must not be cut by a page break.
type ElementLayout struct {
	Clip  Clip         `json:"clip"`
	Avoid [][2]float64 `json:"avoid"`
}

func (d *BrowserDocument) Layout(ctx context.Context, id string, avoidSelectors []string) (ElementLayout, error) {
	var l ElementLayout
	arg := map[string]any{"selectors": avoidSelectors}
	if avoidSelectors == nil {
		arg["selectors"] = []string{}
	}
	err := d.call(ctx, jsLayout, &l, id, arg)
	return l, err
}

// Standalone is the element with the page's styles, enough to rebuild it
// in another tab.
type Standalone struct {
	Base string `json:"base"`
	Lang string `json:"lang"`
	CSS  string `json:"css"`
	HTML string `json:"html"`
}

func (d *BrowserDocument) Standalone(ctx context.Context, id string) (Standalone, error) {
	var s Standalone
	err := d.call(ctx, jsStandalone, &s, id, nil)
	return s, err
}
