package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/starford/inkwell/internal/apperr"
)

func tempLibrary(t *testing.T, files map[string]string) *FS {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestNewFS_RejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.md")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(f); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestNewFS_MissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestList_TopLevelMarkdownOnly(t *testing.T) {
	s := tempLibrary(t, map[string]string{
		"a.md":     "a",
		"b.md":     "b",
		"notes.txt": "skip",
	})
	if err := os.Mkdir(filepath.Join(s.Root(), "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "sub", "deep.md"), []byte("deep"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.Root(), "dir.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, m := range metas {
		names = append(names, m.Filename)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a.md" || names[1] != "b.md" {
		t.Errorf("names = %v, want [a.md b.md]", names)
	}
}

func TestRead(t *testing.T) {
	s := tempLibrary(t, map[string]string{"note.md": "# Hello\nWorld\n"})
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "# Hello\nWorld\n" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestRead_NotFound(t *testing.T) {
	s := tempLibrary(t, nil)
	_, err := s.Read("ghost.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRead_TraversalBlocked(t *testing.T) {
	s := tempLibrary(t, nil)
	for _, name := range []string{"../secret.md", "../../etc/passwd", "/etc/passwd", "sub/x.md", "..", ""} {
		_, err := s.Read(name)
		if !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidPath", name, err)
		}
	}
}

func TestFirstLine(t *testing.T) {
	s := tempLibrary(t, map[string]string{
		"multi.md":  "# Title\nsecond\nthird",
		"single.md": "only line",
		"empty.md":  "",
	})
	cases := map[string]string{
		"multi.md":  "# Title\n",
		"single.md": "only line",
		"empty.md":  "",
	}
	for name, want := range cases {
		got, err := s.FirstLine(name)
		if err != nil {
			t.Fatalf("FirstLine(%s): %v", name, err)
		}
		if got != want {
			t.Errorf("FirstLine(%s) = %q, want %q", name, got, want)
		}
	}
}

func TestFirstLine_MissingFile(t *testing.T) {
	s := tempLibrary(t, nil)
	if _, err := s.FirstLine("missing.md"); err == nil {
		t.Error("expected error for missing file")
	}
}
