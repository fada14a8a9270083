// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/starford/inkwell/internal/assets"
	"github.com/starford/inkwell/internal/export"
	"github.com/starford/inkwell/internal/highlight"
	"github.com/starford/inkwell/internal/index"
	"github.com/starford/inkwell/internal/listing"
	"github.com/starford/inkwell/internal/mcpserver"
	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/nav"
	"github.com/starford/inkwell/internal/page"
	"github.com/starford/inkwell/internal/sse"
	"github.com/starford/inkwell/internal/storage"
	"github.com/starford/inkwell/internal/web"
)

const (
	indexEventThrottle = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOut: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	return app, nil
}

// renderer is the pipeline shared by every command: one theme, one
// highlighter and one template set for the lifetime of the process.
type renderer struct {
	store    *storage.FS
	pages    *page.Assembler
	listing  *listing.Builder
	resolver *nav.Resolver
}

func newRenderer(cfg *Config, logger *slog.Logger, rec metrics.Recorder) (*renderer, error) {
	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	templates, err := assets.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	hl := highlight.New(highlight.LoadTheme(logger))
	resolver := nav.NewResolver(store)

	return &renderer{
		store:    store,
		pages:    page.New(templates, hl, resolver, page.WithRecorder(rec), page.WithLogger(logger)),
		listing:  listing.NewBuilder(store, logger),
		resolver: resolver,
	}, nil
}

// openIndex opens and fills the search index, or returns nil when search
// is disabled.
func openIndex(cfg *Config, store storage.Provider, logger *slog.Logger, rec metrics.Recorder) (*index.DB, error) {
	if !cfg.Search.Enabled {
		return nil, nil
	}
	db, err := index.Open(cfg.Search.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	recordIndexSize(db, rec)
	return db, nil
}

func recordIndexSize(db *index.DB, rec metrics.Recorder) {
	if n, err := db.Count(); err == nil {
		rec.SetIndexedPages(n)
	}
}

// Run serves the library over HTTP until ctx is cancelled or a shutdown
// signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("library_path", cfg.Library.Path),
		slog.String("search", cfg.Search.String()),
		slog.Bool("no_navigation", cfg.Library.NoNavigation),
		slog.String("log_level", cfg.App.LogLevel.String()))

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var webOpts []web.Option
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		pr := metrics.NewPrometheusRecorder(reg)
		rec = pr
		webOpts = append(webOpts, web.WithMetrics(metrics.HTTPHandler(reg), pr))
	}

	r, err := newRenderer(cfg, logger, rec)
	if err != nil {
		return err
	}

	db, err := openIndex(cfg, r.store, logger, rec)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		webOpts = append(webOpts, web.WithSearch(db))
	}

	broker := sse.NewBroker(indexEventThrottle)
	defer broker.Close()

	webOpts = append(webOpts,
		web.WithNoNavigation(cfg.Library.NoNavigation),
		web.WithEvents(broker),
		web.WithLogger(logger),
	)
	srv := web.New(r.store, r.pages, r.listing, webOpts...)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// File watcher feeding the index and the live reload stream.
	g.Go(func() error {
		err := index.Watch(gCtx, db, r.store, logger, func(kind, filename string) {
			broker.PublishPageEvent(kind, filename)
			if db != nil {
				recordIndexSize(db, rec)
			}
		})
		if err != nil {
			logger.Warn("watcher unavailable, live reload disabled", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// Build exports the library as static HTML and returns the export report.
func Build(ctx context.Context, opts ...Option) (export.Report, error) {
	app, err := newApplication(opts)
	if err != nil {
		return export.Report{}, err
	}
	cfg, logger := app.config, app.logger

	r, err := newRenderer(cfg, logger, metrics.NoopRecorder{})
	if err != nil {
		return export.Report{}, err
	}

	outDir := cfg.Build.OutputDir(cfg.Library.Path)
	logger.Info("Exporting library",
		slog.String("library_path", cfg.Library.Path),
		slog.String("out_dir", outDir),
		slog.Int("workers", cfg.Build.Workers))

	exp := export.New(r.store, r.pages, r.listing,
		export.WithWorkers(cfg.Build.Workers),
		export.WithNoNavigation(cfg.Library.NoNavigation),
		export.WithLogger(logger),
	)
	return exp.Export(ctx, outDir)
}

// ServeMCP exposes the library to MCP clients over stdio.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	r, err := newRenderer(cfg, logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	var search mcpserver.Searcher
	db, err := openIndex(cfg, r.store, logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		search = db

		go func() {
			if err := index.Watch(ctx, db, r.store, logger, nil); err != nil {
				logger.Warn("watcher unavailable, index will not refresh", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("Serving MCP over stdio", slog.String("library_path", cfg.Library.Path))
	srv := mcpserver.New(r.store, r.pages, r.listing, r.resolver, search)
	return srv.ServeStdio()
}
