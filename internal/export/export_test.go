package export

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/inkwell/internal/assets"
	"github.com/starford/inkwell/internal/highlight"
	"github.com/starford/inkwell/internal/listing"
	"github.com/starford/inkwell/internal/nav"
	"github.com/starford/inkwell/internal/page"
	"github.com/starford/inkwell/internal/storage"
	"github.com/starford/inkwell/internal/testutil"
)

var library = map[string]string{
	"a@2024-01-01.md": "# Alpha\n",
	"b@2024-06-01.md": "# Beta\n\n```go\nx := 1\n```\n",
	"c@2024-03-01.md": "# Gamma\n",
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newExporter(t *testing.T, store storage.Provider, opts ...Option) *Exporter {
	t.Helper()
	tpl, err := assets.Load()
	if err != nil {
		t.Fatal(err)
	}
	hl := highlight.New(highlight.LoadTheme(discard()))
	asm := page.New(tpl, hl, nav.NewResolver(store), page.WithLogger(discard()))
	opts = append([]Option{WithLogger(discard())}, opts...)
	return New(store, asm, listing.NewBuilder(store, discard()), opts...)
}

func readOut(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestExport_WritesSite(t *testing.T) {
	_, store := testutil.TestLibrary(t, library)
	out := filepath.Join(t.TempDir(), "site")

	rep, err := newExporter(t, store, WithWorkers(2)).Export(context.Background(), out)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := []string{"a@2024-01-01.html", "b@2024-06-01.html", "c@2024-03-01.html", IndexFile, StylesheetFile}
	if diff := cmp.Diff(want, rep.Files); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}

	index := readOut(t, out, IndexFile)
	if !strings.Contains(index, `href="b@2024-06-01.html"`) || strings.Contains(index, ".md\"") {
		t.Errorf("index links not rewritten:\n%s", index)
	}

	first := readOut(t, out, "a@2024-01-01.html")
	if !strings.Contains(first, `<a class="prev" href="index.html">`) {
		t.Errorf("first page should link to index.html:\n%s", first)
	}
	if !strings.Contains(first, `<a class="next" href="b@2024-06-01.html">`) {
		t.Errorf("next link not rewritten:\n%s", first)
	}
	if strings.Contains(first, "EventSource") {
		t.Error("static pages must not carry the live reload script")
	}

	if !strings.Contains(readOut(t, out, "b@2024-06-01.html"), "data-code=") {
		t.Error("code block not highlighted")
	}
	if readOut(t, out, StylesheetFile) != string(assets.Stylesheet()) {
		t.Error("stylesheet differs")
	}
}

func TestExport_NoNavigationSkipsIndex(t *testing.T) {
	_, store := testutil.TestLibrary(t, library)
	out := t.TempDir()

	rep, err := newExporter(t, store, WithNoNavigation(true)).Export(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, IndexFile)); !os.IsNotExist(err) {
		t.Errorf("index.html written with navigation disabled (err=%v)", err)
	}
	if len(rep.Files) != 4 {
		t.Errorf("files = %v", rep.Files)
	}
	if strings.Contains(readOut(t, out, "a@2024-01-01.html"), `class="pager"`) {
		t.Error("pager rendered with navigation disabled")
	}
}

func TestExport_IntoLibraryDirectory(t *testing.T) {
	dir, store := testutil.TestLibrary(t, library)
	if _, err := newExporter(t, store).Export(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	readOut(t, dir, "c@2024-03-01.html")
	// Sources are untouched.
	if readOut(t, dir, "a@2024-01-01.md") != library["a@2024-01-01.md"] {
		t.Error("source document modified")
	}
}

func TestExport_CancelledContext(t *testing.T) {
	_, store := testutil.TestLibrary(t, library)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newExporter(t, store).Export(ctx, t.TempDir()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNew_DefaultWorkers(t *testing.T) {
	_, store := testutil.TestLibrary(t, nil)
	if e := newExporter(t, store, WithWorkers(0)); e.workers < 1 {
		t.Errorf("workers = %d", e.workers)
	}
}
