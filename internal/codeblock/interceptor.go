// Package codeblock intercepts code blocks in a markup event sequence and
// replaces each one with a single highlighted HTML event.
//
// The interceptor is a pull-based state machine with two states. While idle
// it forwards events untouched. A code start switches it to accumulating,
// where code text is buffered until the matching code end; the buffer is
// then highlighted and emitted as one HTML event whose <pre> element carries
// the original code in a data-code attribute. If the upstream sequence ends
// while accumulating, the partial block is dropped.
package codeblock

import (
	"html"
	"iter"
	"strings"

	"github.com/starford/inkwell/internal/highlight"
	"github.com/starford/inkwell/internal/markup"
)

// IndentedLanguage is the language token used for indented code blocks.
const IndentedLanguage = "text"

// Highlighter renders a code span to HTML.
type Highlighter interface {
	Highlight(code, token string) highlight.Result
}

type state uint8

const (
	idle state = iota
	accumulating
)

// Interceptor wraps an event sequence. It is single-use and not safe for
// concurrent use.
type Interceptor struct {
	next    func() (markup.Event, bool)
	stop    func()
	hl      Highlighter
	observe func(token string, res highlight.Result)

	state state
	token string
	buf   strings.Builder
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithObserver registers fn to be called with every highlight result.
func WithObserver(fn func(token string, res highlight.Result)) Option {
	return func(in *Interceptor) { in.observe = fn }
}

// New creates an Interceptor reading from events.
// Call Stop, or drain the sequence, to release the upstream iterator.
func New(events iter.Seq[markup.Event], hl Highlighter, opts ...Option) *Interceptor {
	next, stop := iter.Pull(events)
	in := &Interceptor{next: next, stop: stop, hl: hl}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Wrap returns events with every code block replaced by highlighted HTML.
func Wrap(events iter.Seq[markup.Event], hl Highlighter, opts ...Option) iter.Seq[markup.Event] {
	return New(events, hl, opts...).All()
}

// Next returns the next transformed event. The second result is false once
// the upstream sequence is exhausted.
func (in *Interceptor) Next() (markup.Event, bool) {
	for {
		ev, ok := in.next()
		if !ok {
			in.reset()
			return markup.Event{}, false
		}

		switch in.state {
		case idle:
			if ev.Kind != markup.KindCodeStart {
				return ev, true
			}
			in.state = accumulating
			in.token = languageToken(ev)
		case accumulating:
			switch ev.Kind {
			case markup.KindText:
				in.buf.WriteString(ev.Text)
			case markup.KindCodeEnd:
				return markup.HTML(in.flush()), true
			}
		}
	}
}

// Stop releases the upstream iterator and discards any partial code block.
func (in *Interceptor) Stop() {
	in.stop()
	in.reset()
}

// All adapts the interceptor back into a range-able sequence.
func (in *Interceptor) All() iter.Seq[markup.Event] {
	return func(yield func(markup.Event) bool) {
		defer in.Stop()
		for {
			ev, ok := in.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

func (in *Interceptor) flush() string {
	code := in.buf.String()
	res := in.hl.Highlight(code, in.token)
	if in.observe != nil {
		in.observe(in.token, res)
	}
	out := Annotate(res.HTML, code)
	in.reset()
	return out
}

func (in *Interceptor) reset() {
	in.state = idle
	in.token = ""
	in.buf.Reset()
}

func languageToken(ev markup.Event) string {
	if ev.Code == markup.CodeIndented {
		return IndentedLanguage
	}
	return ev.Lang
}

// Annotate inserts a data-code attribute holding the escaped code right
// after the first "<pre" in fragment.
func Annotate(fragment, code string) string {
	return strings.Replace(fragment, "<pre", `<pre data-code="`+html.EscapeString(code)+`"`, 1)
}
