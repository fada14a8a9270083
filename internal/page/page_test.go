package page

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/starford/inkwell/internal/assets"
	"github.com/starford/inkwell/internal/highlight"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/nav"
	"github.com/starford/inkwell/internal/testutil"
)

var library = map[string]string{
	"a@2024-01-01.md": "# Alpha\n\nFirst page.\n",
	"b@2024-06-01.md": "# Beta\n\n```go\nfmt.Println(\"<hi>\")\n```\n",
	"c@2024-03-01.md": "# Gamma\n",
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newAssembler(t *testing.T, navigator Navigator) *Assembler {
	t.Helper()
	tpl, err := assets.Load()
	if err != nil {
		t.Fatal(err)
	}
	hl := highlight.New(highlight.LoadTheme(discard()))
	return New(tpl, hl, navigator, WithLogger(discard()))
}

func libraryAssembler(t *testing.T) *Assembler {
	t.Helper()
	_, store := testutil.TestLibrary(t, library)
	return newAssembler(t, nav.NewResolver(store))
}

type countingNav struct {
	calls int
	err   error
}

func (c *countingNav) Resolve(string) (nav.Pair, error) {
	c.calls++
	return nav.Absent, c.err
}

func TestRender_ServeMode(t *testing.T) {
	a := libraryAssembler(t)
	out := a.Render([]byte(library["b@2024-06-01.md"]), "b@2024-06-01.md", Options{})

	for _, want := range []string{
		"<title>Beta</title>",
		`<h1>Beta</h1>`,
		`data-code="fmt.Println(&#34;&lt;hi&gt;&#34;)`,
		`href="a@2024-01-01.md"`,
		`href="c@2024-03-01.md"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRender_FirstPageLinksToIndex(t *testing.T) {
	a := libraryAssembler(t)

	out := a.Render([]byte(library["a@2024-01-01.md"]), "a@2024-01-01.md", Options{})
	if !strings.Contains(out, `<a class="prev" href=".">`) {
		t.Errorf("serve sentinel missing:\n%s", out)
	}

	out = a.Render([]byte(library["a@2024-01-01.md"]), "a@2024-01-01.md", Options{Static: true})
	if !strings.Contains(out, `<a class="prev" href="index.html">`) {
		t.Errorf("static sentinel missing:\n%s", out)
	}
	if !strings.Contains(out, `<a class="next" href="b@2024-06-01.html">`) {
		t.Errorf("static next link missing:\n%s", out)
	}
}

func TestRender_LastPageHasNoNext(t *testing.T) {
	out := libraryAssembler(t).Render([]byte(library["c@2024-03-01.md"]), "c@2024-03-01.md", Options{})
	if strings.Contains(out, `class="next"`) {
		t.Error("last page should not link forward")
	}
}

func TestRender_NoNavigationSkipsResolver(t *testing.T) {
	cn := &countingNav{}
	out := newAssembler(t, cn).Render([]byte("# T\n"), "t.md", Options{NoNavigation: true})
	if cn.calls != 0 {
		t.Errorf("resolver called %d times", cn.calls)
	}
	if strings.Contains(out, `class="pager"`) {
		t.Error("pager rendered with navigation disabled")
	}
}

func TestRender_NavigationFailureIsAbsorbed(t *testing.T) {
	cn := &countingNav{err: errors.New("listing failed")}
	out := newAssembler(t, cn).Render([]byte("# Still here\n"), "x.md", Options{})
	if !strings.Contains(out, "<h1>Still here</h1>") {
		t.Errorf("content missing:\n%s", out)
	}
	if strings.Contains(out, `class="prev"`) || strings.Contains(out, `class="next"`) {
		t.Error("links rendered despite navigation failure")
	}
}

func TestRender_TemplateFailureBecomesErrorBody(t *testing.T) {
	tpl, err := assets.Parse(fstest.MapFS{
		assets.Base:   {Data: []byte(`{{define "base"}}{{block "main" .}}{{end}}{{end}}`)},
		assets.Home:   {Data: []byte(`{{template "base" .}}`)},
		assets.Page:   {Data: []byte(`{{template "base" .}}{{define "main"}}{{.NoSuchField}}{{end}}`)},
		assets.Search: {Data: []byte(`{{template "base" .}}`)},
	})
	if err != nil {
		t.Fatal(err)
	}
	a := New(tpl, highlight.New(highlight.LoadTheme(discard())), &countingNav{}, WithLogger(discard()))

	out := a.Render([]byte("# T\n"), "t.md", Options{})
	if !strings.HasPrefix(out, "Error: ") {
		t.Errorf("body = %q, want Error: prefix", out)
	}
}

func TestRender_Idempotent(t *testing.T) {
	a := libraryAssembler(t)
	src := []byte(library["b@2024-06-01.md"])
	if first, second := a.Render(src, "b@2024-06-01.md", Options{}), a.Render(src, "b@2024-06-01.md", Options{}); first != second {
		t.Error("repeated renders differ")
	}
}

func TestRender_UnterminatedFence(t *testing.T) {
	out := libraryAssembler(t).Render([]byte("# T\n\n```rust\nfn main() {\n"), "t.md", Options{NoNavigation: true})
	if strings.HasPrefix(out, "Error:") || !strings.Contains(out, "data-code=") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestBody(t *testing.T) {
	body, err := libraryAssembler(t).Body([]byte("Hello *world*\n"))
	if err != nil {
		t.Fatal(err)
	}
	if body != "<p>Hello <em>world</em></p>\n" {
		t.Errorf("body = %q", body)
	}
}

func TestRenderIndex(t *testing.T) {
	a := libraryAssembler(t)
	entries := []models.PageEntry{
		{Filename: "b@2024-06-01.md", Title: "Beta", Datetime: "2024-06-01"},
		{Filename: "a@2024-01-01.md", Title: "Alpha", Datetime: "2024-01-01"},
	}

	out, err := a.RenderIndex(entries, IndexOptions{Searchable: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<a href="b@2024-06-01.md">Beta</a>`) {
		t.Errorf("serve link missing:\n%s", out)
	}
	if !strings.Contains(out, `action="/-/search"`) {
		t.Error("search form missing")
	}
	if strings.Index(out, "Beta") > strings.Index(out, "Alpha") {
		t.Error("entry order not preserved")
	}

	out, err = a.RenderIndex(entries, IndexOptions{Static: true, Searchable: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<a href="b@2024-06-01.html">Beta</a>`) {
		t.Errorf("static link missing:\n%s", out)
	}
	if strings.Contains(out, `action="/-/search"`) {
		t.Error("static export should not render the search form")
	}
}

func TestRenderSearch(t *testing.T) {
	out, err := libraryAssembler(t).RenderSearch("alp", []models.PageEntry{
		{Filename: "a@2024-01-01.md", Title: "Alpha", Datetime: "2024-01-01"},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `value="alp"`) || !strings.Contains(out, `<a href="a@2024-01-01.md">Alpha</a>`) {
		t.Errorf("unexpected search page:\n%s", out)
	}
}
