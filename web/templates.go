// ABOUTME: TemplateEngine loads embedded HTML page templates and renders them with Go's html/template.
// ABOUTME: Serves the landing page and the dashboard that drives coordination playback in the browser.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/2389-research/lifeline/secondme"
)

//go:embed templates/*.html
var templateFS embed.FS

// QuickTags are the one-tap emergency descriptions offered on the dashboard.
var QuickTags = []string{"肚子痛", "车祸", "迷路", "被交警拦", "着火了", "地震", "被跟踪", "纠纷"}

// PageData holds all data passed to templates for rendering.
type PageData struct {
	Title     string
	User      *secondme.Profile
	LoggedIn  bool
	QuickTags []string
}

// TemplateEngine renders the embedded pages, each wrapped in the layout.
type TemplateEngine struct {
	templates map[string]*template.Template
}

// NewTemplateEngine parses every page together with the layout.
func NewTemplateEngine() (*TemplateEngine, error) {
	pages := []string{"home.html", "dashboard.html"}

	engine := &TemplateEngine{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}
	return engine, nil
}

// Render executes the named page and writes it to w as HTML.
func (e *TemplateEngine) Render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.RenderTo(w, name, data)
}

// RenderTo executes the named page into an arbitrary writer.
func (e *TemplateEngine) RenderTo(w io.Writer, name string, data any) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
