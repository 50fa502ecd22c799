// Package render ties the pipeline together for the CLI and the MCP server:
// read a header, extract it, build a document and format it, going through
// the document cache when one is configured.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cwrap/cwrap/internal/cache"
	"github.com/cwrap/cwrap/internal/cursor"
	"github.com/cwrap/cwrap/internal/extract"
	"github.com/cwrap/cwrap/internal/output"
	"github.com/cwrap/cwrap/internal/parser"
)

// ErrNoPath is returned for a request without a header path.
var ErrNoPath = errors.New("no header path given")

// Renderer renders headers into formatted documents.
type Renderer struct {
	Frontend cursor.Frontend
	Parse    cursor.ParseOptions
	MaxDepth int
	// Cache is optional.
	Cache *cache.Cache
	Log   *slog.Logger
}

// New returns a Renderer over the tree-sitter frontend.
func New(opts cursor.ParseOptions, maxDepth int, c *cache.Cache, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{
		Frontend: parser.NewFrontend(log),
		Parse:    opts,
		MaxDepth: maxDepth,
		Cache:    c,
		Log:      log,
	}
}

// Request selects what to render.
type Request struct {
	Path    string
	Format  output.Format
	Density output.Density
	// MacrosOnly renders the alias and macro table alone.
	MacrosOnly bool
	// Language overrides the parse language for this request.
	Language string
}

// Rendered is a formatted document.
type Rendered struct {
	Text   string
	Cached bool
}

// Render reads, extracts and formats the header named by req.
func (r *Renderer) Render(ctx context.Context, req Request) (*Rendered, error) {
	if req.Path == "" {
		return nil, ErrNoPath
	}
	if req.Format == "" {
		req.Format = output.DefaultFormat
	}
	if req.Density == "" {
		req.Density = output.DefaultDensity
	}
	formatter, err := output.GetFormatter(req.Format)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, &parser.FileReadError{Path: req.Path, Err: err}
	}

	popts := r.Parse
	if req.Language != "" {
		popts.Language = req.Language
	}

	view := "document"
	if req.MacrosOnly {
		view = "macros"
	}
	key := cache.Key{
		Path:        req.Path,
		ContentHash: cache.ContentHash(src),
		OptionsHash: cache.OptionsHash(popts, req.Format.String(), req.Density.String(), view, fmt.Sprint(r.MaxDepth)),
	}
	if r.Cache != nil {
		text, ok, err := r.Cache.GetDocument(key)
		if err != nil {
			r.Log.Warn("cache lookup failed", "path", req.Path, "error", err)
		} else if ok {
			r.Log.Debug("cache hit", "path", req.Path)
			return &Rendered{Text: text, Cached: true}, nil
		}
	}

	res, err := extract.Extract(ctx, r.Frontend, req.Path, src, popts,
		extract.WithLogger(r.Log), extract.WithMaxTypeDepth(r.MaxDepth))
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if req.MacrosOnly {
		doc = output.NewMacrosDocument(res)
	} else {
		doc = output.NewDocument(res, req.Density)
	}
	text, err := formatter.Format(doc)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", req.Path, err)
	}

	if r.Cache != nil {
		if err := r.Cache.PutDocument(key, text); err != nil {
			r.Log.Warn("cache store failed", "path", req.Path, "error", err)
		}
	}
	return &Rendered{Text: text}, nil
}
