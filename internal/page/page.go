// Package page assembles complete HTML pages from Markdown documents.
package page

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/inkwell/internal/assets"
	"github.com/starford/inkwell/internal/codeblock"
	"github.com/starford/inkwell/internal/highlight"
	"github.com/starford/inkwell/internal/markup"
	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/nav"
	"github.com/starford/inkwell/internal/parser"
)

// Navigator resolves the previous/next pages of a document.
type Navigator interface {
	Resolve(current string) (nav.Pair, error)
}

// Options select how a single page is rendered.
type Options struct {
	NoNavigation bool
	Static       bool
	LiveReload   bool
}

// Context is the data passed to the page template.
type Context struct {
	Title        string
	Content      template.HTML
	PrevPage     string
	NextPage     string
	NoNavigation bool
	IsStatic     bool
	LiveReload   bool
	Filename     string
}

// IndexOptions select how the index page is rendered.
type IndexOptions struct {
	Static     bool
	LiveReload bool
	Searchable bool
}

// IndexEntry is a listing row with its link target resolved.
type IndexEntry struct {
	models.PageEntry
	Href string
}

// IndexContext is the data passed to the home template.
type IndexContext struct {
	Pages      []IndexEntry
	IsStatic   bool
	LiveReload bool
	Searchable bool
	Filename   string
}

// SearchContext is the data passed to the search template.
type SearchContext struct {
	Query      string
	Results    []models.PageEntry
	IsStatic   bool
	LiveReload bool
	Filename   string
}

// Assembler renders documents through the parse, intercept, write and
// template stages. It holds only immutable collaborators and is safe for
// concurrent use.
type Assembler struct {
	parser    *markup.Parser
	writer    *markup.HTMLWriter
	hl        codeblock.Highlighter
	templates *assets.Templates
	nav       Navigator
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Assembler) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// New creates an Assembler.
func New(templates *assets.Templates, hl codeblock.Highlighter, navigator Navigator, opts ...Option) *Assembler {
	a := &Assembler{
		parser:    markup.NewParser(),
		writer:    markup.NewHTMLWriter(),
		hl:        hl,
		templates: templates,
		nav:       navigator,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Render returns the full HTML page for a document. It never fails: a
// template error becomes an "Error: ..." body and a navigation error
// leaves both links absent.
func (a *Assembler) Render(content []byte, filename string, opts Options) string {
	mode := metrics.ModeServe
	if opts.Static {
		mode = metrics.ModeStatic
	}
	start := time.Now()
	defer func() { a.recorder.ObserveRenderDuration(mode, time.Since(start)) }()

	body, err := a.Body(content)
	if err != nil {
		return "Error: " + err.Error()
	}

	pair := nav.Absent
	if !opts.NoNavigation {
		pair = a.resolve(filename)
	}
	linkMode := nav.ModeServe
	if opts.Static {
		linkMode = nav.ModeStatic
	}
	prev, next := pair.Links(linkMode)

	ctx := Context{
		Title:        parser.TitleFromContent(content),
		Content:      template.HTML(body),
		PrevPage:     prev,
		NextPage:     next,
		NoNavigation: opts.NoNavigation,
		IsStatic:     opts.Static,
		LiveReload:   opts.LiveReload,
		Filename:     filename,
	}

	var sb strings.Builder
	if err := a.templates.Execute(&sb, assets.Page, ctx); err != nil {
		a.logger.Error("page template failed",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return "Error: " + err.Error()
	}
	return sb.String()
}

func (a *Assembler) resolve(filename string) nav.Pair {
	pair, err := a.nav.Resolve(filename)
	if err != nil {
		a.logger.Warn("navigation unavailable",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return nav.Absent
	}
	return pair
}

// Body renders the document content alone, without the page template.
func (a *Assembler) Body(content []byte) (string, error) {
	doc := a.parser.Parse(content)
	events := codeblock.Wrap(doc.Events(), a.hl, codeblock.WithObserver(a.observe))
	body, err := a.writer.String(doc.Source(), events)
	if err != nil {
		return "", fmt.Errorf("page: write body: %w", err)
	}
	return body, nil
}

func (a *Assembler) observe(token string, res highlight.Result) {
	a.recorder.IncHighlightOutcome(res.Outcome.String())
	if res.Outcome == highlight.Fallback {
		a.logger.Warn("code block rendered without highlighting",
			slog.String("language", token),
			slog.String("error", res.Err.Error()))
	}
}

// RenderIndex renders the index page. Static exports link to .html files.
func (a *Assembler) RenderIndex(entries []models.PageEntry, opts IndexOptions) (string, error) {
	rows := make([]IndexEntry, len(entries))
	for i, e := range entries {
		href := e.Filename
		if opts.Static {
			href = parser.HTMLName(e.Filename)
		}
		rows[i] = IndexEntry{PageEntry: e, Href: href}
	}
	ctx := IndexContext{
		Pages:      rows,
		IsStatic:   opts.Static,
		LiveReload: opts.LiveReload,
		Searchable: opts.Searchable && !opts.Static,
	}

	var sb strings.Builder
	if err := a.templates.Execute(&sb, assets.Home, ctx); err != nil {
		return "", fmt.Errorf("page: render index: %w", err)
	}
	return sb.String(), nil
}

// RenderSearch renders the search results page.
func (a *Assembler) RenderSearch(query string, results []models.PageEntry, liveReload bool) (string, error) {
	ctx := SearchContext{Query: query, Results: results, LiveReload: liveReload}
	var sb strings.Builder
	if err := a.templates.Execute(&sb, assets.Search, ctx); err != nil {
		return "", fmt.Errorf("page: render search: %w", err)
	}
	return sb.String(), nil
}
