package model

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/publicsuffix"
)

// PageOptions are the export settings baked into the page's button.
type PageOptions struct {
	TargetElementID string
	Filename        string
	Busy            bool
}

type Link struct {
	Key   string
	Href  string
	Label string
}

type CertView struct {
	Certification
	URLLabel string
}

type pageData struct {
	Resume   *Resume
	Summary  template.HTML
	Extras   template.HTML
	Contacts []Link
	Certs    []CertView
	CSS      template.CSS
	PageOptions
}

// Page renders the resume page from templates/resume.html with
// templates/style.css inlined.
type Page struct {
	tpl    *template.Template
	css    template.CSS
	policy *bluemonday.Policy
}

func NewPage(tplDir string) (*Page, error) {
	tpl, err := template.ParseFiles(filepath.Join(tplDir, "resume.html"))
	if err != nil {
		return nil, err
	}
	css, err := os.ReadFile(filepath.Join(tplDir, "style.css"))
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return &Page{tpl: tpl, css: template.CSS(css), policy: bluemonday.UGCPolicy()}, nil
}

func (p *Page) Render(w io.Writer, r *Resume, opts PageOptions) error {
	if r == nil {
		return fmt.Errorf("render page: no resume content")
	}
	data := pageData{
		Resume:      r,
		Summary:     p.sanitize(r.Summary),
		Extras:      p.sanitize(r.Extras),
		Contacts:    contactLinks(r.Meta.Contact),
		CSS:         p.css,
		PageOptions: opts,
	}
	for _, c := range r.Certifications {
		label := ""
		if c.URL != "" {
			label = LinkLabel(c.URL)
		}
		if label == "" {
			label = c.Issuer
		}
		if label == "" && c.URL != "" {
			label = "link"
		}
		data.Certs = append(data.Certs, CertView{Certification: c, URLLabel: label})
	}
	return p.tpl.Execute(w, data)
}

// sanitize keeps the user-generated-content subset of HTML.
func (p *Page) sanitize(s string) template.HTML {
	return template.HTML(p.policy.Sanitize(s))
}

// LinkLabel shortens a URL to its registrable domain, e.g.
// "https://www.coursera.org/verify/X" becomes "coursera.org".
func LinkLabel(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return ""
	}
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return raw
	}
	host := parsed.Hostname()
	if host == "" {
		return raw
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

func contactLinks(contact map[string]string) []Link {
	keys := make([]string, 0, len(contact))
	for k := range contact {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Link, 0, len(keys))
	for _, k := range keys {
		v := strings.TrimSpace(contact[k])
		if v == "" {
			continue
		}
		l := Link{Key: k, Label: v}
		switch {
		case strings.Contains(v, "@") && !strings.Contains(v, "/"):
			l.Href = "mailto:" + v
		case strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://"):
			l.Href = v
			l.Label = LinkLabel(v) + strings.TrimSuffix(pathOf(v), "/")
		}
		out = append(out, l)
	}
	return out
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.EscapedPath()
}
