package output

import (
	"fmt"
	"strings"

	"github.com/cwrap/cwrap/internal/ast"
	"github.com/cwrap/cwrap/internal/extract"
)

// maxTypeDepth bounds inline type trees; deeper levels are cut off.
const maxTypeDepth = 32

// NewDocument renders res at the given density.
func NewDocument(res *extract.Result, density Density) *Document {
	r := renderer{tree: res.Tree, density: density}
	doc := &Document{
		Summary: &Summary{ByKind: make(map[string]int)},
	}
	if file, ok := res.Node(res.File).(*ast.File); ok {
		doc.File = file.Name
	}

	decls := append([]ast.NodeID(nil), res.Decls...)
	if density.IncludesElided() {
		res.Tree.Each(func(id ast.NodeID, n ast.Node) {
			if elided(n) {
				decls = append(decls, id)
			}
		})
	}
	for _, id := range decls {
		n := res.Node(id)
		if n.Kind() == ast.KindFile {
			continue
		}
		doc.Declarations = append(doc.Declarations, r.declaration(id, n))
		doc.Summary.ByKind[n.Kind().String()]++
	}
	doc.Summary.Declarations = len(doc.Declarations)

	if density.IncludesTypes() {
		macros := NewMacrosDocument(res)
		doc.Aliases, doc.Macros = macros.Aliases, macros.Macros
		for _, d := range res.Diagnostics {
			out := &DiagnosticOutput{
				Severity: d.Severity.String(),
				Location: d.Location.String(),
				Category: d.Category,
				Message:  d.Message,
			}
			for _, f := range d.FixIts {
				out.FixIts = append(out.FixIts, fmt.Sprintf("insert %q at %s", f.Replacement, f.Start))
			}
			doc.Diagnostics = append(doc.Diagnostics, out)
		}
	}
	if density.IncludesLayout() {
		for _, u := range res.Unresolved {
			doc.Unresolved = append(doc.Unresolved, &UnresolvedOutput{
				Node:   u.Node,
				Kind:   u.Kind.String(),
				Name:   u.Name,
				Key:    string(u.Key),
				Reason: u.Reason,
			})
		}
	}

	doc.Summary.Aliases = len(res.Aliases)
	doc.Summary.Macros = len(res.Macros)
	doc.Summary.Diagnostics = len(res.Diagnostics)
	doc.Summary.Unresolved = len(res.Unresolved)
	return doc
}

// NewMacrosDocument renders the alias and macro table of res.
func NewMacrosDocument(res *extract.Result) *MacrosDocument {
	doc := &MacrosDocument{
		Aliases: []*AliasOutput{},
		Macros:  []*MacroOutput{},
	}
	if file, ok := res.Node(res.File).(*ast.File); ok {
		doc.File = file.Name
	}
	for _, a := range res.Aliases {
		out := &AliasOutput{Name: a.Name, Value: a.Value, Target: a.Target}
		if a.Of != nil {
			out.Of = a.Of.Name
		}
		doc.Aliases = append(doc.Aliases, out)
	}
	for _, m := range res.Macros {
		doc.Macros = append(doc.Macros, &MacroOutput{Name: m.Name, Args: m.Args, Body: m.Body})
	}
	return doc
}

func elided(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Struct:
		return n.Elided
	case *ast.Union:
		return n.Elided
	case *ast.Enumeration:
		return n.Elided
	}
	return false
}

type renderer struct {
	tree    *ast.Tree
	density Density
}

func (r renderer) declaration(id ast.NodeID, n ast.Node) *Declaration {
	meta := n.Meta()
	d := &Declaration{ID: id, Kind: n.Kind().String(), Name: meta.Name}
	if meta.Location != nil {
		d.Location = meta.Location.String()
	}
	if !r.density.IncludesTypes() {
		return d
	}
	if r.density.IncludesLayout() {
		d.Context = meta.Context
	}

	switch n := n.(type) {
	case *ast.Namespace:
		d.Children = n.Members
	case *ast.Struct:
		r.record(d, &n.Record)
	case *ast.Union:
		r.record(d, &n.Record)
	case *ast.Enumeration:
		d.Anonymous = n.Anonymous
		d.Elided = n.Elided && r.density.IncludesElided()
		r.layout(d, n.Size, n.Align)
		for _, vid := range n.Values {
			if v, ok := r.tree.Node(vid).(*ast.EnumValue); ok {
				value := v.Value
				d.Members = append(d.Members, &Member{ID: vid, Name: v.Name, Value: &value})
			}
		}
	case *ast.Typedef:
		d.Type = r.typeOf(n.Type, 0)
	case *ast.Variable:
		d.Type = r.typeOf(n.Type, 0)
		d.Init = n.Init
	case *ast.Function:
		d.Returns = r.typeOf(n.Returns, 0)
		d.Variadic = n.Variadic
		d.Attributes = n.Attributes
		for _, aid := range n.Args {
			if a, ok := r.tree.Node(aid).(*ast.Argument); ok {
				d.Arguments = append(d.Arguments, &Member{ID: aid, Name: a.Name, Type: r.typeOf(a.Type, 0)})
			}
		}
	}
	return d
}

func (r renderer) record(d *Declaration, rec *ast.Record) {
	d.Anonymous = rec.Anonymous
	d.Elided = rec.Elided && r.density.IncludesElided()
	r.layout(d, rec.Size, rec.Align)
	for _, b := range rec.Bases {
		d.Bases = append(d.Bases, r.typeOf(b, 0))
	}
	for _, mid := range rec.Members {
		f, ok := r.tree.Node(mid).(*ast.Field)
		if !ok {
			continue
		}
		m := &Member{ID: mid, Name: f.Name, Type: r.typeOf(f.Type, 0)}
		if f.Bits >= 0 {
			bits := f.Bits
			m.Bits = &bits
		}
		if r.density.IncludesLayout() && f.Offset >= 0 {
			offset := f.Offset
			m.Offset = &offset
		}
		d.Members = append(d.Members, m)
	}
}

func (r renderer) layout(d *Declaration, size, align int64) {
	if !r.density.IncludesLayout() {
		return
	}
	if size >= 0 {
		d.Size = &size
	}
	if align >= 0 {
		d.Align = &align
	}
}

// typeOf renders the type tree behind ref. Named declarations end the tree.
func (r renderer) typeOf(ref ast.TypeRef, depth int) *TypeOutput {
	if ref.IsZero() {
		return nil
	}
	n := r.tree.Type(ref)
	if n == nil {
		return nil
	}
	if depth > maxTypeDepth {
		return &TypeOutput{Kind: "fundamental", Name: ast.UnknownTypeName, Unknown: true}
	}

	switch n := n.(type) {
	case *ast.FundamentalType:
		t := &TypeOutput{Kind: "fundamental", Name: n.Name, Unknown: n.Unknown}
		if !n.Decl.IsZero() {
			t.Ref = n.Decl.ID()
		}
		return t
	case *ast.PointerType:
		kind := "pointer"
		if n.Reference {
			kind = "reference"
		}
		return &TypeOutput{Kind: kind, Of: r.typeOf(n.Type, depth+1)}
	case *ast.ArrayType:
		min, max := n.Min, n.Max
		return &TypeOutput{Kind: "array", Min: &min, Max: &max, Of: r.typeOf(n.Type, depth+1)}
	case *ast.CvQualifiedType:
		return &TypeOutput{Kind: "cv", Const: n.Const, Volatile: n.Volatile, Of: r.typeOf(n.Type, depth+1)}
	case *ast.FunctionType:
		t := &TypeOutput{Kind: "function", Returns: r.typeOf(n.Returns, depth+1), Variadic: n.Variadic}
		for _, aid := range n.Args {
			if a, ok := r.tree.Node(aid).(*ast.Argument); ok {
				t.Args = append(t.Args, r.typeOf(a.Type, depth+1))
			}
		}
		return t
	}
	return &TypeOutput{Kind: strings.ToLower(n.Kind().String()), Name: n.Meta().Name, Ref: ref.ID()}
}
