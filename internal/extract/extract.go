// Package extract turns a parsed translation unit into a resolved AST.
//
// A Builder walks the cursor tree once, mapping every type it meets and
// registering every declaration under its cursor identity. Declarations that
// are referenced before they are visited are constructed on demand. After the
// walk the arena is resolved, the interesting declarations are collected and
// the #define table is matched against them.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwrap/cwrap/internal/ast"
	"github.com/cwrap/cwrap/internal/cursor"
)

// DefaultMaxTypeDepth bounds on-demand construction of declarations reached
// through types.
const DefaultMaxTypeDepth = 64

// ErrNoTranslationUnit is returned when Build is given nothing to walk.
var ErrNoTranslationUnit = errors.New("no translation unit")

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for traversal diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithMaxTypeDepth sets how deep type mapping may construct declarations
// before falling back to the work-list.
func WithMaxTypeDepth(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

// Builder holds the state of one build. It is not safe for concurrent use
// and is discarded after Build returns.
type Builder struct {
	log      *slog.Logger
	maxDepth int

	arena  *ast.Arena
	scopes scopeStack
	depth  int

	// defined records identities whose members have been visited.
	defined map[cursor.ID]bool
	// order records when a node was first attached to a scope.
	order map[ast.NodeID]int
	// deferred holds declarations reached past maxDepth.
	deferred []cursor.Cursor
	// elisions holds typedef targets that were pending when visited.
	elisions []cursor.ID

	fundamentals map[string]ast.NodeID
}

func newBuilder(opts ...Option) *Builder {
	b := &Builder{
		log:          slog.Default(),
		maxDepth:     DefaultMaxTypeDepth,
		arena:        ast.NewArena(),
		defined:      make(map[cursor.ID]bool),
		order:        make(map[ast.NodeID]int),
		fundamentals: make(map[string]ast.NodeID),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build converts tu into a Result.
func Build(tu *cursor.TranslationUnit, opts ...Option) (*Result, error) {
	if tu == nil || tu.Root == nil {
		return nil, ErrNoTranslationUnit
	}
	b := newBuilder(opts...)

	for _, d := range tu.Diagnostics {
		if d.Severity >= cursor.SeverityError {
			b.log.Warn("parse diagnostic", "location", d.Location.String(), "severity", d.Severity.String(), "message", d.Message)
		} else {
			b.log.Debug("parse diagnostic", "location", d.Location.String(), "severity", d.Severity.String(), "message", d.Message)
		}
	}

	file := b.visit(tu.Root)
	b.drain()
	b.elideDeferred()

	tree := b.arena.Resolve()
	for _, u := range tree.Unresolved() {
		b.log.Warn("unresolved reference", "node", u.String())
	}
	return b.assemble(file, tree, tu), nil
}

// Extract parses src with fe and builds the result. A fatal parse failure
// is returned as an error and nothing is built.
func Extract(ctx context.Context, fe cursor.Frontend, path string, src []byte, popts cursor.ParseOptions, opts ...Option) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tu, err := fe.Parse(ctx, path, src, popts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return Build(tu, opts...)
}

// drain constructs the declarations queued by type mapping. Each one starts
// again at depth zero, so the work-list replaces deep recursion.
func (b *Builder) drain() {
	for len(b.deferred) > 0 {
		decl := b.deferred[0]
		b.deferred = b.deferred[1:]
		if _, ok := b.arena.Lookup(decl.ID()); ok {
			continue
		}
		b.log.Debug("constructing deferred declaration", "id", string(decl.ID()), "kind", decl.Kind().String())
		b.construct(decl, 0)
	}
}

// scopeStack tracks the scope nodes enclosing the cursor being visited.
type scopeStack struct {
	ids []ast.NodeID
}

// push enters scope id and returns the matching pop, meant to be deferred.
func (s *scopeStack) push(id ast.NodeID) func() {
	s.ids = append(s.ids, id)
	n := len(s.ids)
	return func() { s.ids = s.ids[:n-1] }
}

func (s *scopeStack) top() ast.NodeID {
	if len(s.ids) == 0 {
		return ast.NoNode
	}
	return s.ids[len(s.ids)-1]
}
