package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"buzzportal/internal/app/session"
	"buzzportal/internal/app/user"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page template names.
const (
	PageLanding = "landing.html"
	PageLogin   = "login.html"
	PageSignup  = "signup.html"
	PageStudent = "student.html"
	PageAdmin   = "admin.html"
)

var pageNames = []string{PageLanding, PageLogin, PageSignup, PageStudent, PageAdmin}

var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// Layout wraps a page model with what every page shows.
type Layout struct {
	Title   string
	User    *user.Identity
	Notices []session.Notice

	// CSRFField is the hidden input every form carries.
	CSRFField template.HTML

	// CoversEnabled shows the cover upload field on the event form.
	CoversEnabled bool

	Page any
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, layout Layout) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %s", name)
	}
	return tmpl.Execute(w, layout)
}
