// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes inkwell tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/index"
	"github.com/starford/inkwell/internal/listing"
	"github.com/starford/inkwell/internal/nav"
	"github.com/starford/inkwell/internal/page"
	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

const (
	conventionsURI     = "inkwell://conventions"
	defaultSearchLimit = 20
)

// Searcher is the part of the page index used by search_pages.
type Searcher interface {
	Search(query string, limit int) ([]index.SearchResult, error)
}

// Server wraps the MCP server with inkwell tools.
type Server struct {
	mcp     *server.MCPServer
	store   storage.Provider
	pages   *page.Assembler
	listing *listing.Builder
	nav     *nav.Resolver
	search  Searcher
}

// New creates a new MCP server with all inkwell tools registered.
// search may be nil, in which case search_pages reports that search is disabled.
func New(store storage.Provider, pages *page.Assembler, lb *listing.Builder, resolver *nav.Resolver, search Searcher) *Server {
	s := &Server{store: store, pages: pages, listing: lb, nav: resolver, search: search}

	s.mcp = server.NewMCPServer(
		"inkwell",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List every page of the library, newest first, with title and timestamp."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read the raw Markdown of a page."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page filename; the .md extension is optional")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Render a page body to HTML with highlighted code blocks."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page filename; the .md extension is optional")),
	), s.renderPage)

	s.mcp.AddTool(mcp.NewTool("get_navigation",
		mcp.WithDescription("Return the previous and next links of a page."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page filename; the .md extension is optional")),
		mcp.WithString("mode", mcp.Description("Link style"), mcp.Enum("serve", "static")),
	), s.getNavigation)

	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Full-text search through page titles and content."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
	), s.searchPages)

	s.mcp.AddResource(
		mcp.NewResource(conventionsURI, "Library Conventions",
			mcp.WithResourceDescription("How library documents are named, titled and ordered."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readConventions,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) read(req mcp.CallToolRequest) (string, []byte, *mcp.CallToolResult) {
	raw, err := req.RequireString("name")
	if err != nil {
		return "", nil, mcp.NewToolResultError(err.Error())
	}
	name := parser.Normalize(raw)
	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidPath) {
			return "", nil, mcp.NewToolResultError(fmt.Sprintf("not found: %s", name))
		}
		return "", nil, mcp.NewToolResultError(err.Error())
	}
	return name, data, nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.listing.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entries)
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, data, errResult := s.read(req)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) renderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, data, errResult := s.read(req)
	if errResult != nil {
		return errResult, nil
	}
	body, err := s.pages.Body(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

type navigationResult struct {
	Name string `json:"name"`
	Prev string `json:"prev"`
	Next string `json:"next"`
}

func (s *Server) getNavigation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := nav.ModeServe
	if req.GetString("mode", "serve") == "static" {
		mode = nav.ModeStatic
	}

	name := parser.Normalize(raw)
	pair, err := s.nav.Resolve(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prev, next := pair.Links(mode)
	return jsonResult(navigationResult{Name: name, Prev: prev, Next: next})
}

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.search == nil {
		return mcp.NewToolResultError(fmt.Sprintf("search %s", apperr.ErrDisabled)), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.search.Search(query, req.GetInt("limit", defaultSearchLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) readConventions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      conventionsURI,
			MIMEType: "text/markdown",
			Text:     LibraryConventions,
		},
	}, nil
}
