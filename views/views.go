// Package views holds the page templates, embedded in the binary.
package views

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var files embed.FS

// Template names.
const (
	Page       = "page"
	Panel      = "panel"
	CopyButton = "copy_button"
)

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is New for package initialisation; it panics on a template error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes the named template to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
