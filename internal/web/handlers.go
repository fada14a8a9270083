package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/assets"
	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/page"
	"github.com/starford/inkwell/internal/parser"
)

const (
	notFoundBody      = "<h1>404</h1><p>Page not found</p>"
	defaultSearchSize = 50
)

// pageName extracts the requested document name, appending the document
// extension when it is missing. Encoded names are decoded.
func pageName(r *http.Request) string {
	raw := chi.URLParam(r, "page")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return parser.Normalize(decoded)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	s.recorder.IncPageResult(metrics.ResultNotFound)
	writeHTML(w, http.StatusNotFound, notFoundBody)
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	if s.noNavigation {
		s.recorder.IncPageResult(metrics.ResultDisabled)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Disabled"))
		return
	}

	entries, err := s.listing.List()
	if err != nil {
		s.fail(w, "list pages failed", err)
		return
	}
	body, err := s.pages.RenderIndex(entries, page.IndexOptions{
		LiveReload: s.events != nil,
		Searchable: s.search != nil,
	})
	if err != nil {
		s.fail(w, "render index failed", err)
		return
	}
	s.recorder.IncPageResult(metrics.ResultOK)
	writeHTML(w, http.StatusOK, body)
}

// Stylesheet handles GET /style.css.
func (s *Server) Stylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(assets.Stylesheet())
}

// Page handles GET /{page}. "foo" and "foo.md" name the same document.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	name := pageName(r)
	content, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidPath) {
			s.notFound(w, r)
			return
		}
		s.fail(w, "read page failed", err, slog.String("file", name))
		return
	}

	body := s.pages.Render(content, name, page.Options{
		NoNavigation: s.noNavigation,
		LiveReload:   s.events != nil,
	})
	s.recorder.IncPageResult(metrics.ResultOK)
	writeHTML(w, http.StatusOK, body)
}

// Live handles GET /-/health/live.
func (s *Server) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /-/health/ready. The library must be listable and the
// index, when enabled, must answer.
func (s *Server) Ready(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.store.List(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "library unavailable"})
		return
	}
	if s.search != nil {
		if _, err := s.search.Count(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "index unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPages handles GET /-/api/pages.
func (s *Server) ListPages(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.listing.List()
	if err != nil {
		s.logger.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pages": entries,
		"total": len(entries),
	})
}

// SearchPage handles GET /-/search.
func (s *Server) SearchPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var entries []models.PageEntry
	if q != "" {
		results, err := s.search.Search(q, defaultSearchSize)
		if err != nil {
			s.fail(w, "search failed", err, slog.String("query", q))
			return
		}
		entries = make([]models.PageEntry, len(results))
		for i, res := range results {
			entries[i] = models.PageEntry{Filename: res.Filename, Title: res.Title, Datetime: res.Datetime}
		}
	}
	body, err := s.pages.RenderSearch(q, entries, s.events != nil)
	if err != nil {
		s.fail(w, "render search failed", err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// SearchJSON handles GET /-/api/search.
func (s *Server) SearchJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := s.search.Search(q, limit)
	if err != nil {
		s.logger.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error, attrs ...any) {
	s.recorder.IncPageResult(metrics.ResultError)
	s.logger.Error(msg, append(attrs, slog.String("error", err.Error()))...)
	writeHTML(w, http.StatusInternalServerError, "Error: "+err.Error())
}
