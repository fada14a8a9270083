package markup

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// funcTable collects goldmark node renderer functions by node kind.
type funcTable map[ast.NodeKind]renderer.NodeRendererFunc

func (t funcTable) Register(kind ast.NodeKind, f renderer.NodeRendererFunc) {
	t[kind] = f
}

// HTMLWriter writes event sequences as HTML using goldmark's node renderers
// for structural events. It is immutable after construction and safe for
// concurrent use.
type HTMLWriter struct {
	funcs funcTable
}

// NewHTMLWriter creates an HTMLWriter covering the core CommonMark nodes and
// the table, strikethrough, task list and footnote extensions.
func NewHTMLWriter() *HTMLWriter {
	funcs := funcTable{}
	for _, nr := range []renderer.NodeRenderer{
		html.NewRenderer(),
		extension.NewTableHTMLRenderer(),
		extension.NewStrikethroughHTMLRenderer(),
		extension.NewTaskCheckBoxHTMLRenderer(),
		extension.NewFootnoteHTMLRenderer(),
	} {
		nr.RegisterFuncs(funcs)
	}
	return &HTMLWriter{funcs: funcs}
}

// Write consumes events and writes HTML to w. source must be the bytes the
// structural nodes were parsed from.
func (hw *HTMLWriter) Write(w io.Writer, source []byte, events iter.Seq[Event]) error {
	bw := bufio.NewWriter(w)

	// A node renderer may consume its own children (images render their alt
	// text, for example); events under such a node are dropped until its exit.
	var skip ast.Node

	for ev := range events {
		if skip != nil {
			if ev.Kind != KindExit || ev.Node != skip {
				continue
			}
			skip = nil
		}

		switch ev.Kind {
		case KindEnter, KindExit:
			entering := ev.Kind == KindEnter
			f := hw.funcs[ev.Node.Kind()]
			if f == nil {
				continue
			}
			status, err := f(bw, source, ev.Node, entering)
			if err != nil {
				return fmt.Errorf("markup: render %s: %w", ev.Node.Kind(), err)
			}
			if entering && status == ast.WalkSkipChildren {
				skip = ev.Node
			}
		case KindCodeStart:
			_, _ = bw.WriteString("<pre><code")
			if ev.Code == CodeFenced && ev.Lang != "" {
				_, _ = bw.WriteString(` class="language-`)
				_, _ = bw.Write(util.EscapeHTML([]byte(ev.Lang)))
				_ = bw.WriteByte('"')
			}
			_ = bw.WriteByte('>')
		case KindText:
			_, _ = bw.Write(util.EscapeHTML([]byte(ev.Text)))
		case KindCodeEnd:
			_, _ = bw.WriteString("</code></pre>\n")
		case KindHTML:
			_, _ = bw.WriteString(ev.Text)
		}
	}
	return bw.Flush()
}

// String is Write into a string.
func (hw *HTMLWriter) String(source []byte, events iter.Seq[Event]) (string, error) {
	var sb strings.Builder
	err := hw.Write(&sb, source, events)
	return sb.String(), err
}
