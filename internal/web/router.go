// Package web serves a library over HTTP.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/inkwell/internal/index"
	"github.com/starford/inkwell/internal/listing"
	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/page"
	"github.com/starford/inkwell/internal/storage"
)

// Searcher is the part of the page index used by the search routes.
type Searcher interface {
	Search(query string, limit int) ([]index.SearchResult, error)
	Count() (int, error)
}

// Server holds the collaborators of the HTTP handlers.
type Server struct {
	store    storage.Provider
	pages    *page.Assembler
	listing  *listing.Builder
	search   Searcher
	events   http.Handler
	metrics  http.Handler
	recorder metrics.Recorder
	logger   *slog.Logger

	noNavigation bool
}

// Option configures a Server.
type Option func(*Server)

// WithNoNavigation disables the index page and prev/next links.
func WithNoNavigation(disabled bool) Option {
	return func(s *Server) { s.noNavigation = disabled }
}

// WithSearch mounts the search routes backed by idx.
func WithSearch(idx Searcher) Option {
	return func(s *Server) { s.search = idx }
}

// WithEvents mounts the live reload stream and enables the reload script.
func WithEvents(h http.Handler) Option {
	return func(s *Server) { s.events = h }
}

// WithMetrics mounts the metrics endpoint and records page results.
func WithMetrics(h http.Handler, rec metrics.Recorder) Option {
	return func(s *Server) {
		s.metrics = h
		s.recorder = rec
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server.
func New(store storage.Provider, pages *page.Assembler, lb *listing.Builder, opts ...Option) *Server {
	s := &Server{
		store:    store,
		pages:    pages,
		listing:  lb,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the chi router with every route mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.NotFound(s.notFound)

	r.Get("/", s.Index)
	r.Get("/style.css", s.Stylesheet)
	r.Get("/{page}", s.Page)

	r.Route("/-", func(r chi.Router) {
		r.Get("/health/live", s.Live)
		r.Get("/health/ready", s.Ready)
		r.Get("/api/pages", s.ListPages)

		if s.search != nil {
			r.Get("/search", s.SearchPage)
			r.Get("/api/search", s.SearchJSON)
		}
		if s.events != nil {
			r.Get("/events", s.events.ServeHTTP)
		}
		if s.metrics != nil {
			r.Get("/metrics", s.metrics.ServeHTTP)
		}
	})

	return r
}
