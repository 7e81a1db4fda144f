// Package render turns stored records into HTML. Every stored field passes
// through EscapeHTML before it reaches markup.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"jokerboard/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultCategory labels posts stored without a category.
const DefaultCategory = "General"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces the five HTML-reserved characters with entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// ContentHTML escapes s and turns line breaks into <br>.
func ContentHTML(s string) string {
	return strings.ReplaceAll(EscapeHTML(s), "\n", "<br>")
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Theme   string
	User    *models.User
	Error   string
	Notice  string
	Posts   []models.Post
	Post    *models.Post
	Form    map[string]string
	Version string
}

// IsAdmin reports whether the session user may see admin controls.
func (p Page) IsAdmin() bool {
	return p.User.IsAdmin()
}

var funcs = template.FuncMap{
	"esc": func(s string) template.HTML {
		return template.HTML(EscapeHTML(s))
	},
	"content": func(s string) template.HTML {
		return template.HTML(ContentHTML(s))
	},
	"category": func(s string) template.HTML {
		if strings.TrimSpace(s) == "" {
			s = DefaultCategory
		}
		return template.HTML(EscapeHTML(s))
	},
}

// Pages served by the board.
var pageNames = []string{"index", "login", "register", "board", "write", "post", "dashboard"}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded layout with each page.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNew is New for package-level initialization.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page name wrapped in the layout.
func (r *Renderer) Render(w io.Writer, name string, data Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if data.Theme == "" {
		data.Theme = "dark"
	}
	return t.ExecuteTemplate(w, "base", data)
}
