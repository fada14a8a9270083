// Package assets embeds the page templates and the stylesheet.
//
// Templates are parsed once at startup into one set per page. Every page
// template extends _base.html by overriding its "title" and "main" blocks.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

const (
	Base   = "_base.html"
	Home   = "home.html"
	Page   = "page.html"
	Search = "search.html"
)

// ErrTemplateNotFound is returned when executing an unknown template.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/style.css
var stylesheet []byte

// Stylesheet returns the site stylesheet.
func Stylesheet() []byte { return stylesheet }

// Templates holds one parsed set per page template. It is read-only after
// construction and safe for concurrent use.
type Templates struct {
	sets map[string]*template.Template
}

// Load parses the embedded templates.
func Load() (*Templates, error) {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return Parse(sub)
}

// Parse reads Base plus every page template from fsys.
func Parse(fsys fs.FS) (*Templates, error) {
	base, err := template.New(Base).ParseFS(fsys, Base)
	if err != nil {
		return nil, fmt.Errorf("assets: parse %s: %w", Base, err)
	}

	sets := make(map[string]*template.Template, 3)
	for _, name := range []string{Home, Page, Search} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("assets: clone base for %s: %w", name, err)
		}
		set, err := clone.ParseFS(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("assets: parse %s: %w", name, err)
		}
		sets[name] = set
	}
	return &Templates{sets: sets}, nil
}

// Execute renders the named page template with data.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	set, ok := t.sets[name]
	if !ok {
		return fmt.Errorf("assets: %w: %s", ErrTemplateNotFound, name)
	}
	if err := set.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("assets: execute %s: %w", name, err)
	}
	return nil
}
