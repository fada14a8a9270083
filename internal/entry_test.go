package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/inkwell/internal/testutil"
)

func testConfig(libraryPath string) *Config {
	cfg := NewDefaultConfig()
	cfg.Library.Path = libraryPath
	return cfg
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuild(t *testing.T) {
	dir, _ := testutil.TestLibrary(t, map[string]string{
		"a@2024-01-01.md": "# Alpha\n",
		"b@2024-02-01.md": "# Beta\n\n```go\nx := 1\n```\n",
	})
	cfg := testConfig(dir)
	cfg.Build.OutDir = filepath.Join(t.TempDir(), "site")

	rep, err := Build(context.Background(), WithConfig(cfg), quiet())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a@2024-01-01.html", "b@2024-02-01.html", "index.html", "style.css"}
	if diff := cmp.Diff(want, rep.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	html, err := os.ReadFile(filepath.Join(cfg.Build.OutDir, "b@2024-02-01.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), `href="a@2024-01-01.html"`) {
		t.Error("static page should link to the previous page's html file")
	}
}

func TestBuildDefaultsToLibraryDir(t *testing.T) {
	dir, _ := testutil.TestLibrary(t, map[string]string{"a@2024-01-01.md": "# Alpha\n"})

	rep, err := Build(context.Background(), WithConfig(testConfig(dir)), quiet())
	if err != nil {
		t.Fatal(err)
	}
	if rep.OutDir != dir {
		t.Errorf("out dir = %q, want %q", rep.OutDir, dir)
	}
	if _, err := os.Stat(filepath.Join(dir, "a@2024-01-01.html")); err != nil {
		t.Errorf("page not written next to its source: %v", err)
	}
}

func TestBuildNoNavigation(t *testing.T) {
	dir, _ := testutil.TestLibrary(t, map[string]string{"a@2024-01-01.md": "# Alpha\n"})
	cfg := testConfig(dir)
	cfg.Library.NoNavigation = true

	rep, err := Build(context.Background(), WithConfig(cfg), quiet())
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range rep.Files {
		if f == "index.html" {
			t.Error("index.html written with navigation disabled")
		}
	}
}

func TestBuildMissingLibrary(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "absent"))
	if _, err := Build(context.Background(), WithConfig(cfg), quiet()); err == nil {
		t.Fatal("expected error for missing library")
	}
}

func TestRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Run without config should fail")
	}
	if _, err := Build(context.Background()); err == nil {
		t.Error("Build without config should fail")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir, _ := testutil.TestLibrary(t, map[string]string{"a@2024-01-01.md": "# Alpha\n"})
	cfg := testConfig(dir)
	cfg.App.HTTP.Port = 0

	if err := Run(context.Background(), WithConfig(cfg), quiet()); err == nil {
		t.Error("expected validation error for port 0")
	}
}
