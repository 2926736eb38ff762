package model

// Go models that match resume.schema.json, used for validation and rendering.

type Meta struct {
	Name     string            `json:"name"`
	Headline string            `json:"headline"`
	Location string            `json:"location,omitempty"`
	Contact  map[string]string `json:"contact,omitempty"`
}

type Snapshot struct {
	Tech             string   `json:"tech"`
	Achievements     []string `json:"achievements"`
	SelectedProjects []string `json:"selected_projects"`
}

type Role struct {
	Company string   `json:"company"`
	Title   string   `json:"title"`
	Period  string   `json:"period,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	Stack       string   `json:"stack,omitempty"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Resume is the content shown on the resume page. Summary and Extras may
// carry a small amount of inline HTML.
type Resume struct {
	Meta           Meta              `json:"meta"`
	Summary        string            `json:"summary"`
	Snapshot       Snapshot          `json:"snapshot"`
	Experience     []Role            `json:"experience"`
	Projects       []Project         `json:"projects"`
	Publications   []string          `json:"publications,omitempty"`
	Certifications []Certification   `json:"certifications,omitempty"`
	Extras         string            `json:"extras,omitempty"`
	Labels         map[string]string `json:"labels,omitempty"`
}

// DefaultLabels are the English section headings.
func DefaultLabels() map[string]string {
	return map[string]string{
		"professional_summary": "Professional Summary",
		"tech_snapshot":        "Tech Snapshot",
		"top_achievements":     "Top Achievements",
		"selected_projects":    "Selected Projects",
		"experience":           "Experience",
		"projects":             "Projects",
		"publications":         "Publications",
		"certifications":       "Certifications",
		"extras":               "Extras",
		"download_pdf":         "Download PDF",
		"generating":           "Generating PDF...",
	}
}

// Label returns the heading for key, falling back to the English default.
func (r *Resume) Label(key string) string {
	if v := r.Labels[key]; v != "" {
		return v
	}
	if v := DefaultLabels()[key]; v != "" {
		return v
	}
	return key
}
