package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"SoftWork/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

type feature struct {
	Icon, Title, Text string
}

var features = []feature{
	{"🎯", "Accurate Analysis", "Our tips are based on technical analysis and market trends"},
	{"⚡", "Real-time Updates", "Get the latest market movements and opportunities"},
	{"🔒", "Completely Free", "No hidden fees, no premium subscriptions required"},
}

type pageData struct {
	Snapshot model.Snapshot
	Features []feature
	Year     int
}

// Renderer turns a snapshot into HTML. It holds no state of its own.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"lower": func(t model.TipType) string { return strings.ToLower(string(t)) },
		"inc":   func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes the full page.
func (r *Renderer) Page(w io.Writer, snap model.Snapshot) error {
	return r.tmpl.ExecuteTemplate(w, "page", pageData{Snapshot: snap, Features: features, Year: time.Now().Year()})
}

// Sections renders the live-updated fragments keyed by element id.
func (r *Renderer) Sections(snap model.Snapshot) (map[string]string, error) {
	out := make(map[string]string, 3)
	for id, name := range map[string]string{"tip-display": "tip", "status": "status", "subscribers": "subscribers"} {
		var buf bytes.Buffer
		if err := r.tmpl.ExecuteTemplate(&buf, name, snap); err != nil {
			return nil, err
		}
		out[id] = buf.String()
	}
	return out, nil
}
