// Package export renders a library into a static file tree.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/starford/inkwell/internal/assets"
	"github.com/starford/inkwell/internal/listing"
	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/page"
	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

const (
	IndexFile      = "index.html"
	StylesheetFile = "style.css"
)

// Exporter writes one .html file per document plus the index page and the
// stylesheet.
type Exporter struct {
	store    storage.Provider
	pages    *page.Assembler
	listing  *listing.Builder
	recorder metrics.Recorder
	logger   *slog.Logger

	workers      int
	noNavigation bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithWorkers bounds the number of documents rendered at once.
// Values below one select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Exporter) { e.workers = n }
}

// WithNoNavigation skips the index page and prev/next links.
func WithNoNavigation(disabled bool) Option {
	return func(e *Exporter) { e.noNavigation = disabled }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Exporter) { e.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an Exporter.
func New(store storage.Provider, pages *page.Assembler, lb *listing.Builder, opts ...Option) *Exporter {
	e := &Exporter{
		store:    store,
		pages:    pages,
		listing:  lb,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Report summarises an export.
type Report struct {
	OutDir string
	Files  []string // written file names, sorted
}

// Export writes the site into outDir, creating it if needed. The first
// failing document cancels the remaining work.
func (e *Exporter) Export(ctx context.Context, outDir string) (Report, error) {
	start := time.Now()
	rep := Report{OutDir: outDir}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return rep, fmt.Errorf("export: create out dir: %w", err)
	}

	docs, err := e.store.List()
	if err != nil {
		return rep, fmt.Errorf("export: %w", err)
	}

	var mu sync.Mutex
	written := func(name string) {
		mu.Lock()
		rep.Files = append(rep.Files, name)
		mu.Unlock()
	}

	if !e.noNavigation {
		if err := e.writeIndex(outDir); err != nil {
			return rep, err
		}
		written(IndexFile)
	}
	if err := writeFile(outDir, StylesheetFile, assets.Stylesheet()); err != nil {
		return rep, err
	}
	written(StylesheetFile)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, d := range docs {
		name := d.Filename
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out, err := e.exportPage(outDir, name)
			if err != nil {
				return err
			}
			written(out)
			return nil
		})
	}
	err = g.Wait()

	slices.Sort(rep.Files)
	e.recorder.ObserveExportDuration(time.Since(start))
	if err != nil {
		return rep, err
	}
	e.logger.Info("export finished",
		slog.String("out_dir", outDir),
		slog.Int("files", len(rep.Files)),
		slog.Duration("elapsed", time.Since(start)))
	return rep, nil
}

func (e *Exporter) writeIndex(outDir string) error {
	entries, err := e.listing.List()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	body, err := e.pages.RenderIndex(entries, page.IndexOptions{Static: true})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return writeFile(outDir, IndexFile, []byte(body))
}

func (e *Exporter) exportPage(outDir, name string) (string, error) {
	content, err := e.store.Read(name)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	body := e.pages.Render(content, name, page.Options{
		NoNavigation: e.noNavigation,
		Static:       true,
	})
	out := parser.HTMLName(name)
	if err := writeFile(outDir, out, []byte(body)); err != nil {
		return "", err
	}
	e.logger.Debug("exported", slog.String("file", name), slog.String("out", out))
	return out, nil
}

// writeFile replaces dir/name atomically. New files are created 0600 by the
// temp-file rename, so the mode is widened for serving.
func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("export: chmod %s: %w", name, err)
	}
	return nil
}
