package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cwrap/cwrap/internal/cursor"
)

// Frontend parses C and C++ headers with tree-sitter and materializes the
// declarations as cursors. It implements cursor.Frontend.
type Frontend struct {
	log *slog.Logger
}

// NewFrontend returns a frontend that logs through log. A nil logger uses
// slog.Default.
func NewFrontend(log *slog.Logger) *Frontend {
	if log == nil {
		log = slog.Default()
	}
	return &Frontend{log: log}
}

var _ cursor.Frontend = (*Frontend)(nil)

// Parse parses src, or the file at path when src is nil.
func (f *Frontend) Parse(ctx context.Context, path string, src []byte, opts cursor.ParseOptions) (*cursor.TranslationUnit, error) {
	lang, err := LanguageFor(path, opts.Language)
	if err != nil {
		return nil, err
	}
	p, err := NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var result *ParseResult
	if src == nil {
		result, err = p.ParseFile(ctx, path)
	} else {
		result, err = p.Parse(ctx, src)
		if pe, ok := err.(*ParseError); ok {
			pe.File = path
		}
	}
	if err != nil {
		return nil, err
	}
	defer result.Close()
	result.FilePath = path

	u := newUnit(result, opts)
	u.collectDiagnostics()
	if !opts.Incomplete {
		for _, d := range u.diags {
			if d.Severity >= cursor.SeverityError {
				return nil, &ParseError{
					Message: d.Message,
					File:    path,
					Line:    d.Location.Line,
					Column:  d.Location.Column,
				}
			}
		}
	}

	root := u.translationUnit(result.Root)
	f.log.Debug("parsed translation unit",
		"path", path,
		"language", string(lang),
		"declarations", len(root.children),
		"diagnostics", len(u.diags))

	return &cursor.TranslationUnit{
		Root:        root,
		Diagnostics: u.diags,
		Defines:     strings.Join(u.defines, "\n"),
	}, nil
}

// unit holds the state of materializing one parse tree.
type unit struct {
	res  *ParseResult
	path string
	lang Language
	opts cursor.ParseOptions

	// symbols maps "tag@name" to the preferred declaring cursor.
	symbols map[string]*node
	// enumVals holds the values of enum constants seen so far.
	enumVals map[string]int64

	diags   []cursor.Diagnostic
	defines []string
}

func newUnit(res *ParseResult, opts cursor.ParseOptions) *unit {
	return &unit{
		res:      res,
		path:     res.FilePath,
		lang:     res.Language,
		opts:     opts,
		symbols:  make(map[string]*node),
		enumVals: make(map[string]int64),
	}
}

// declare records n under tag and name. A definition is never replaced by
// a later forward declaration.
func (u *unit) declare(tag, name string, n *node) {
	if name == "" {
		return
	}
	key := tag + "@" + name
	if prev, ok := u.symbols[key]; ok && prev.definition && !n.definition {
		return
	}
	u.symbols[key] = n
}

func (u *unit) lookup(tag, name string) *node {
	return u.symbols[tag+"@"+name]
}

func (u *unit) text(n *sitter.Node) string {
	return u.res.NodeText(n)
}

func (u *unit) location(n *sitter.Node) cursor.Location {
	p := n.StartPoint()
	return cursor.Location{File: u.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// anonID identifies an entity without a name by its position.
func (u *unit) anonID(n *sitter.Node, suffix string) cursor.ID {
	return cursor.ID(fmt.Sprintf("c:%s@%d@%s", u.path, n.StartByte(), suffix))
}

// collectDiagnostics reports ERROR and MISSING nodes. A missing token
// carries a fix-it inserting it.
func (u *unit) collectDiagnostics() {
	if !u.res.HasErrors() {
		return
	}
	u.res.WalkNodes(func(n *sitter.Node) bool {
		switch {
		case n.IsMissing():
			loc := u.location(n)
			u.diags = append(u.diags, cursor.Diagnostic{
				Severity: cursor.SeverityError,
				Location: loc,
				Category: "Parse Issue",
				Message:  fmt.Sprintf("expected '%s'", n.Type()),
				FixIts:   []cursor.FixIt{{Start: loc, End: loc, Replacement: n.Type()}},
			})
			return false
		case n.Type() == "ERROR":
			u.diags = append(u.diags, cursor.Diagnostic{
				Severity: cursor.SeverityError,
				Location: u.location(n),
				Category: "Parse Issue",
				Message:  fmt.Sprintf("syntax error near '%s'", excerpt(u.text(n))),
			})
			return false
		}
		return n.HasError()
	})
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
