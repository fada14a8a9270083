// Package markup turns Markdown into a lazy sequence of lexical events and
// writes such sequences back out as HTML.
//
// Parsing is done by goldmark with a fixed feature set (tables, footnotes,
// strikethrough, task lists). The parsed tree is exposed as an
// iter.Seq[Event] so that stream transformers, such as the code block
// interceptor, can sit between the parser and the HTML writer.
package markup

import "github.com/yuin/goldmark/ast"

// Kind identifies the type of an Event.
type Kind uint8

const (
	// KindEnter opens a structural node (paragraph, heading, emphasis...).
	KindEnter Kind = iota + 1
	// KindExit closes the node opened by the matching KindEnter.
	KindExit
	// KindCodeStart opens a code block.
	KindCodeStart
	// KindText carries literal code text. It only appears inside a code block.
	KindText
	// KindCodeEnd closes a code block.
	KindCodeEnd
	// KindHTML carries opaque hypertext written verbatim.
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindEnter:
		return "enter"
	case KindExit:
		return "exit"
	case KindCodeStart:
		return "code-start"
	case KindText:
		return "text"
	case KindCodeEnd:
		return "code-end"
	case KindHTML:
		return "html"
	default:
		return "unknown"
	}
}

// CodeKind tells fenced code blocks from indented ones.
type CodeKind uint8

const (
	CodeIndented CodeKind = iota + 1
	CodeFenced
)

// Event is one element of a lexical event sequence.
type Event struct {
	Kind Kind
	// Node is set for KindEnter and KindExit.
	Node ast.Node
	// Code and Lang describe a KindCodeStart. Lang is empty for indented
	// blocks and for fences without an info string.
	Code CodeKind
	Lang string
	// Text is the payload of KindText and KindHTML.
	Text string
}

// CodeStart returns a KindCodeStart event.
func CodeStart(kind CodeKind, lang string) Event {
	return Event{Kind: KindCodeStart, Code: kind, Lang: lang}
}

// Text returns a KindText event.
func Text(s string) Event { return Event{Kind: KindText, Text: s} }

// CodeEnd returns a KindCodeEnd event.
func CodeEnd() Event { return Event{Kind: KindCodeEnd} }

// HTML returns a KindHTML event.
func HTML(s string) Event { return Event{Kind: KindHTML, Text: s} }
