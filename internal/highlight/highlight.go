// Package highlight renders code as syntax-colored HTML using chroma.
//
// Highlight never fails. When no syntax definition matches the language
// token the plain-text lexer is used, and when highlighting itself breaks
// the code is returned HTML-escaped inside a bare <pre><code> wrapper. The
// Result records which of these paths produced the output.
package highlight

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrHighlight marks a highlighting failure absorbed by the fallback path.
var ErrHighlight = errors.New("highlight failed")

// Outcome records how a Result was produced.
type Outcome uint8

const (
	// Highlighted means a syntax definition matched the language token.
	Highlighted Outcome = iota
	// PlainText means nothing matched and the plain-text lexer was used.
	PlainText
	// Fallback means highlighting failed and the code was only escaped.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Highlighted:
		return "highlighted"
	case PlainText:
		return "plaintext"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is the output of Highlight.
type Result struct {
	HTML    string
	Lexer   string
	Outcome Outcome
	// Err is the absorbed cause when Outcome is Fallback.
	Err error
}

// Highlighter holds the theme and formatter shared by every render.
// It is immutable and safe for concurrent use.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithFormatter replaces the HTML formatter.
func WithFormatter(f chroma.Formatter) Option {
	return func(h *Highlighter) { h.formatter = f }
}

// New creates a Highlighter using style for every code block. The default
// formatter writes inline styles so no extra stylesheet is needed.
func New(style *chroma.Style, opts ...Option) *Highlighter {
	h := &Highlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Highlight renders code for the language token. The lookup is
// case-insensitive and accepts names, aliases and file extensions.
func (h *Highlighter) Highlight(code, token string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = fallback(code, fmt.Errorf("%w: panic: %v", ErrHighlight, r))
		}
	}()

	lexer, outcome := lookup(token)
	name := lexer.Config().Name

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fallback(code, fmt.Errorf("%w: tokenise %s: %v", ErrHighlight, name, err))
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, it); err != nil {
		return fallback(code, fmt.Errorf("%w: format %s: %v", ErrHighlight, name, err))
	}
	return Result{HTML: sb.String(), Lexer: name, Outcome: outcome}
}

func lookup(token string) (chroma.Lexer, Outcome) {
	token = strings.TrimSpace(token)
	if token != "" {
		if l := lexers.Get(token); l != nil {
			return chroma.Coalesce(l), Highlighted
		}
	}
	return chroma.Coalesce(lexers.Fallback), PlainText
}

// Plain wraps code in <pre><code> with HTML escaping and nothing else.
func Plain(code string) string {
	return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
}

func fallback(code string, err error) Result {
	return Result{HTML: Plain(code), Outcome: Fallback, Err: err}
}
