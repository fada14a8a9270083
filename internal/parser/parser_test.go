package parser

import (
	"testing"
)

func TestTitle_StripsHeadingMarkers(t *testing.T) {
	cases := map[string]string{
		"# Hello\n":         "Hello",
		"### Deep heading ": "Deep heading",
		"plain first line":  "plain first line",
		"#":                 "",
		"":                  "",
	}
	for in, want := range cases {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleFromContent_FirstLineOnly(t *testing.T) {
	got := TitleFromContent([]byte("# First\n# Second\nbody"))
	if got != "First" {
		t.Errorf("title = %q, want %q", got, "First")
	}
}

func TestTimestamp(t *testing.T) {
	cases := map[string]string{
		"a@2024-01-01.md":        "2024-01-01",
		"b@2024-06-01T10:00.md":  "2024-06-01T10:00",
		"slug@with@two.md":       "with@two",
		"no-delimiter.md":        InvalidDate,
		"SUMMARY.md":             InvalidDate,
		"dotted@2024.01.02.md":   "2024.01.02",
	}
	for in, want := range cases {
		if got := Timestamp(in); got != want {
			t.Errorf("Timestamp(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_ExtensionOptional(t *testing.T) {
	if Normalize("foo") != "foo.md" {
		t.Errorf("Normalize(foo) = %q", Normalize("foo"))
	}
	if Normalize("foo.md") != "foo.md" {
		t.Errorf("Normalize(foo.md) = %q", Normalize("foo.md"))
	}
}

func TestHTMLName(t *testing.T) {
	if got := HTMLName("a@2024-01-01.md"); got != "a@2024-01-01.html" {
		t.Errorf("HTMLName = %q", got)
	}
	// Only the extension is rewritten, not inner ".md" text.
	if got := HTMLName("read.md.notes.md"); got != "read.md.notes.html" {
		t.Errorf("HTMLName = %q", got)
	}
}

func TestIsDocument(t *testing.T) {
	if !IsDocument("a.md") {
		t.Error("a.md should be a document")
	}
	for _, name := range []string{"a.txt", "a.MD", "a.md.bak", "md"} {
		if IsDocument(name) {
			t.Errorf("%q should not be a document", name)
		}
	}
}
