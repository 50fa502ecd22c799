package extract

import (
	"sort"

	"github.com/cwrap/cwrap/internal/ast"
	"github.com/cwrap/cwrap/internal/cursor"
)

// Result is the outcome of one build.
type Result struct {
	// File is the translation unit node.
	File ast.NodeID
	Tree *ast.Tree
	// Decls lists the interesting declarations in source order.
	Decls []ast.NodeID
	// Namespace maps declaration names to nodes; on a name clash the later
	// declaration wins.
	Namespace   map[string]ast.NodeID
	Aliases     []*ast.Alias
	Macros      []*ast.Macro
	Diagnostics []cursor.Diagnostic
	Unresolved  []ast.Unresolved
}

// Node returns the node for id.
func (r *Result) Node(id ast.NodeID) ast.Node { return r.Tree.Node(id) }

// Lookup returns the declaration named name.
func (r *Result) Lookup(name string) (ast.Node, bool) {
	id, ok := r.Namespace[name]
	if !ok {
		return nil, false
	}
	return r.Tree.Node(id), true
}

func interesting(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.File, *ast.Namespace, *ast.Typedef, *ast.Function, *ast.Variable:
		return true
	case *ast.Struct:
		return !n.Elided
	case *ast.Union:
		return !n.Elided
	case *ast.Enumeration:
		return !n.Elided
	}
	return false
}

func (b *Builder) assemble(file ast.NodeID, tree *ast.Tree, tu *cursor.TranslationUnit) *Result {
	res := &Result{
		File:        file,
		Tree:        tree,
		Namespace:   make(map[string]ast.NodeID),
		Diagnostics: tu.Diagnostics,
		Unresolved:  tree.Unresolved(),
	}

	tree.Each(func(id ast.NodeID, n ast.Node) {
		if interesting(n) {
			res.Decls = append(res.Decls, id)
		}
	})
	// Attached declarations keep their source position; the rest follow in
	// construction order.
	sort.SliceStable(res.Decls, func(i, j int) bool {
		oi, iok := b.order[res.Decls[i]]
		oj, jok := b.order[res.Decls[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return false
	})

	for _, id := range res.Decls {
		if name := tree.Node(id).Meta().Name; name != "" {
			res.Namespace[name] = id
		}
	}

	defs := ParseDefines(tu.Defines, b.log)
	ResolveAliases(defs.Aliases, res.Namespace)
	res.Aliases, res.Macros = defs.Aliases, defs.Macros
	return res
}
