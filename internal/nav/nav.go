// Package nav derives previous/next navigation between library pages.
//
// Siblings are the library documents sorted by filename, excluding the
// reserved summary document. The first sibling links back to the index
// page; the last one has no next link. Adjacency does not depend on how the
// site is delivered; only the href produced for a link does.
package nav

import (
	"fmt"
	"slices"

	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

// Reserved is the document name that never takes part in navigation.
const Reserved = "SUMMARY.md"

// Mode selects how links are written.
type Mode uint8

const (
	// ModeServe links to documents by their .md name and to the index as ".".
	ModeServe Mode = iota
	// ModeStatic links to exported .html files and to "index.html".
	ModeStatic
)

// LinkKind tells what a Link points at.
type LinkKind uint8

const (
	LinkNone LinkKind = iota
	LinkIndex
	LinkPage
)

// Link is one side of a navigation pair.
type Link struct {
	Kind     LinkKind
	Filename string // set for LinkPage
}

var (
	none  = Link{Kind: LinkNone}
	index = Link{Kind: LinkIndex}
)

func page(name string) Link { return Link{Kind: LinkPage, Filename: name} }

// Href returns the link target for mode, or "" when the link is absent.
func (l Link) Href(mode Mode) string {
	switch l.Kind {
	case LinkIndex:
		if mode == ModeStatic {
			return "index.html"
		}
		return "."
	case LinkPage:
		if mode == ModeStatic {
			return parser.HTMLName(l.Filename)
		}
		return l.Filename
	default:
		return ""
	}
}

// Pair is the navigation of one page.
type Pair struct {
	Prev Link
	Next Link
}

// Absent is the pair of a page with no navigation.
var Absent = Pair{Prev: none, Next: none}

// Links returns the prev and next hrefs for mode.
func (p Pair) Links(mode Mode) (prev, next string) {
	return p.Prev.Href(mode), p.Next.Href(mode)
}

// Resolver computes navigation from the current library contents.
type Resolver struct {
	store storage.Provider
}

// NewResolver creates a Resolver over store.
func NewResolver(store storage.Provider) *Resolver {
	return &Resolver{store: store}
}

// Resolve lists the library and locates current among its siblings.
func (r *Resolver) Resolve(current string) (Pair, error) {
	docs, err := r.store.List()
	if err != nil {
		return Absent, fmt.Errorf("nav: resolve %s: %w", current, err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Filename
	}
	return Locate(Siblings(names), current), nil
}

// Siblings returns the navigable names sorted ascending.
func Siblings(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == Reserved || !parser.IsDocument(n) {
			continue
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Locate returns the pair for current within sorted siblings.
func Locate(siblings []string, current string) Pair {
	i, found := slices.BinarySearch(siblings, current)
	if !found {
		return Absent
	}
	p := Pair{Prev: index, Next: none}
	if i > 0 {
		p.Prev = page(siblings[i-1])
	}
	if i < len(siblings)-1 {
		p.Next = page(siblings[i+1])
	}
	return p
}
