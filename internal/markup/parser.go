package markup

import (
	"iter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Parser parses Markdown with the fixed inkwell feature set.
// It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with tables, footnotes, strikethrough and
// task lists enabled and everything else left at goldmark defaults.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Footnote,
		),
	)
	return &Parser{md: md}
}

// Document is a parsed Markdown source.
type Document struct {
	source []byte
	root   ast.Node
}

// Parse parses source into a Document.
func (p *Parser) Parse(source []byte) *Document {
	root := p.md.Parser().Parse(text.NewReader(source))
	return &Document{source: source, root: root}
}

// Source returns the bytes the document was parsed from.
func (d *Document) Source() []byte { return d.source }

// Events returns the document as a lazy, single-pass event sequence.
//
// Every node produces a KindEnter/KindExit pair, except code blocks which
// produce KindCodeStart, one KindText per source line and KindCodeEnd.
func (d *Document) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			switch n.Kind() {
			case ast.KindFencedCodeBlock, ast.KindCodeBlock:
				if !entering {
					return ast.WalkContinue, nil
				}
				if !d.yieldCode(n, yield) {
					return ast.WalkStop, nil
				}
				return ast.WalkSkipChildren, nil
			}

			kind := KindExit
			if entering {
				kind = KindEnter
			}
			if !yield(Event{Kind: kind, Node: n}) {
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		})
	}
}

func (d *Document) yieldCode(n ast.Node, yield func(Event) bool) bool {
	start := CodeStart(CodeIndented, "")
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		start = CodeStart(CodeFenced, string(fenced.Language(d.source)))
	}
	if !yield(start) {
		return false
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if !yield(Text(string(seg.Value(d.source)))) {
			return false
		}
	}
	return yield(CodeEnd())
}
