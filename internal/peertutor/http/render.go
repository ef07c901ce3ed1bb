package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/domain"
	"github.com/aussiebroadwan/peertutor/pkg/httpx"
	"github.com/aussiebroadwan/peertutor/pkg/slogx"
)

//go:embed templates
var templateFS embed.FS

// pageData is what every page template receives. Data is page specific.
type pageData struct {
	Title     string
	Principal domain.Principal
	Flashes   []string
	Data      any
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Format("Jan 2, 2006")
	},
	"categoryLabel": categoryLabel,
}

// Views renders the embedded page templates inside the shared layout.
type Views struct {
	pages   map[string]*template.Template
	flashes *FlashStore
}

// NewViews parses every page under templates/pages together with the
// layout. Parsing errors are returned at startup rather than per request.
func NewViews(flashes *FlashStore) (*Views, error) {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	v := &Views{pages: make(map[string]*template.Template, len(names)), flashes: flashes}
	for _, name := range names {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/partials.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[path.Base(name)] = tmpl
	}
	return v, nil
}

// Render writes page with status. Queued flashes are popped and shown
// before extra, which carries messages produced by this same request.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any, extra ...string) {
	tmpl, ok := v.pages[page]
	if !ok {
		slogx.FromContext(r.Context()).Error("unknown page template", "page", page)
		http.Error(w, msgInternalServerError, http.StatusInternalServerError)
		return
	}

	pd := pageData{
		Title:     title,
		Principal: PrincipalFromContext(r.Context()),
		Data:      data,
	}
	if v.flashes != nil {
		pd.Flashes = v.flashes.Pop(w, r)
	}
	pd.Flashes = append(pd.Flashes, extra...)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", pd); err != nil {
		slogx.LogError(slogx.FromContext(r.Context()), "failed to render page", err)
		http.Error(w, msgInternalServerError, http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (v *Views) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, "404.html", "Page Not Found", nil)
}

// ServerError logs err and renders the 500 page.
func (v *Views) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.LogError(slogx.FromContext(r.Context()), "request failed", err)
	v.Render(w, r, http.StatusInternalServerError, "500.html", "Server Error", nil)
}

func categoryLabel(category string) string {
	switch category {
	case domain.CategoryScience:
		return "Science"
	case domain.CategoryMath:
		return "Math"
	case domain.CategoryCSAS:
		return "Computer Science and Applied Science"
	}
	return category
}
