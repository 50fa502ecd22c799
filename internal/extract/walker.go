package extract

import (
	"github.com/cwrap/cwrap/internal/ast"
	"github.com/cwrap/cwrap/internal/cursor"
)

const undefinedName = "UNDEFINED"

// visit builds the node for c, registering it under c's identity. It
// returns NoNode for cursors that produce no node.
func (b *Builder) visit(c cursor.Cursor) ast.NodeID {
	if !c.Location().IsValid() && c.Kind() != cursor.KindTranslationUnit {
		return ast.NoNode
	}

	switch c.Kind() {
	case cursor.KindTranslationUnit:
		return b.visitFile(c)
	case cursor.KindNamespace:
		return b.visitNamespace(c)
	case cursor.KindLinkageSpec:
		b.visitTransparent(c)
		return ast.NoNode
	case cursor.KindStructDecl, cursor.KindClassDecl, cursor.KindUnionDecl:
		return b.visitRecord(c)
	case cursor.KindEnumDecl:
		return b.visitEnum(c)
	case cursor.KindEnumConstantDecl:
		return b.visitEnumConstant(c)
	case cursor.KindFieldDecl:
		return b.visitField(c)
	case cursor.KindFunctionDecl:
		return b.visitFunction(c)
	case cursor.KindVarDecl:
		return b.visitVariable(c)
	case cursor.KindTypedefDecl:
		return b.visitTypedef(c)
	case cursor.KindMethod, cursor.KindConstructor, cursor.KindDestructor,
		cursor.KindConversionFunction, cursor.KindBaseSpecifier:
		return b.visitIgnored(c)
	case cursor.KindParmDecl:
		// gathered by the owning function
		return ast.NoNode
	case cursor.KindMacroDefinition, cursor.KindMacroExpansion, cursor.KindInclusionDirective:
		return ast.NoNode
	case cursor.KindTemplate, cursor.KindStaticAssert, cursor.KindUnexposedDecl, cursor.KindInvalid:
		return b.unhandled(c)
	default:
		return b.unhandled(c)
	}
}

// construct visits a declaration reached through a type rather than
// through its parent scope.
func (b *Builder) construct(c cursor.Cursor, depth int) ast.NodeID {
	saved := b.depth
	b.depth = depth
	defer func() { b.depth = saved }()
	return b.visit(c)
}

func (b *Builder) unhandled(c cursor.Cursor) ast.NodeID {
	b.log.Warn("unhandled cursor kind",
		"kind", c.Kind().String(),
		"name", c.Spelling(),
		"location", c.Location().String())
	return ast.NoNode
}

// register stores the node built by mk under c's identity, unless c was
// registered before, in which case the existing node is returned.
func (b *Builder) register(c cursor.Cursor, mk func() ast.Node) (ast.NodeID, ast.Node, bool) {
	if id, ok := b.arena.Lookup(c.ID()); ok {
		return id, b.arena.Node(id), false
	}
	n := mk()
	meta := n.Meta()
	meta.Location = location(c)
	meta.Context = b.contextFor(c)
	id, _ := b.arena.Register(c.ID(), n)
	return id, n, true
}

// contextFor prefers the node of c's semantic parent and falls back to the
// innermost scope being visited.
func (b *Builder) contextFor(c cursor.Cursor) ast.NodeID {
	if p := c.Parent(); p != "" {
		if id, ok := b.arena.Lookup(p); ok {
			return id
		}
	}
	return b.scopes.top()
}

func location(c cursor.Cursor) *ast.Location {
	loc := c.Location()
	if !loc.IsValid() {
		return nil
	}
	return &ast.Location{File: loc.File, Line: loc.Line}
}

// attach appends child to scope's members the first time child is seen.
func (b *Builder) attach(scope, child ast.NodeID) {
	if scope == ast.NoNode || child == ast.NoNode {
		return
	}
	if _, seen := b.order[child]; seen {
		return
	}
	if err := b.arena.AddMember(scope, child); err != nil {
		b.log.Warn("cannot attach member", "error", err)
		return
	}
	b.order[child] = len(b.order)
}

// visitMembers visits c's children inside scope and attaches the results.
func (b *Builder) visitMembers(c cursor.Cursor, scope ast.NodeID) {
	defer b.scopes.push(scope)()
	for _, child := range c.Children() {
		b.attach(scope, b.visit(child))
	}
}

// visitTransparent attaches c's children to the enclosing scope.
func (b *Builder) visitTransparent(c cursor.Cursor) {
	scope := b.scopes.top()
	for _, child := range c.Children() {
		b.attach(scope, b.visit(child))
	}
}

func (b *Builder) visitFile(c cursor.Cursor) ast.NodeID {
	id, _, created := b.register(c, func() ast.Node {
		return &ast.File{Common: ast.Common{Name: c.DisplayName()}}
	})
	if created {
		b.order[id] = len(b.order)
		b.visitMembers(c, id)
	}
	return id
}

func (b *Builder) visitNamespace(c cursor.Cursor) ast.NodeID {
	id, _, _ := b.register(c, func() ast.Node {
		return &ast.Namespace{Common: ast.Common{Name: c.Spelling()}}
	})
	// namespaces reopen; every block adds members
	b.visitMembers(c, id)
	return id
}

func (b *Builder) visitRecord(c cursor.Cursor) ast.NodeID {
	id, n, _ := b.register(c, func() ast.Node {
		rec := ast.Record{
			Common:    ast.Common{Name: c.Spelling()},
			Anonymous: c.Spelling() == "",
			Size:      -1,
			Align:     -1,
		}
		if c.Kind() == cursor.KindUnionDecl {
			return &ast.Union{Record: rec}
		}
		return &ast.Struct{Record: rec}
	})
	if !c.IsDefinition() || b.defined[c.ID()] {
		return id
	}
	b.defined[c.ID()] = true

	rec, ok := ast.RecordOf(n)
	if !ok {
		b.log.Warn("identity reused by a different kind", "id", string(c.ID()), "kind", n.Kind().String())
		return id
	}
	if t := c.Type(); t != nil {
		rec.Size, rec.Align = t.Size(), t.Align()
	}
	rec.Location = location(c)
	b.visitMembers(c, id)
	return id
}

func (b *Builder) visitEnum(c cursor.Cursor) ast.NodeID {
	id, n, _ := b.register(c, func() ast.Node {
		return &ast.Enumeration{
			Common:    ast.Common{Name: checkName(c.Spelling())},
			Anonymous: c.Spelling() == "",
			Size:      -1,
			Align:     -1,
		}
	})
	e, ok := n.(*ast.Enumeration)
	if !ok {
		return id
	}
	if !c.IsDefinition() || b.defined[c.ID()] {
		return id
	}
	b.defined[c.ID()] = true

	if t := c.Type(); t != nil {
		e.Size, e.Align = t.Size(), t.Align()
	}
	e.Location = location(c)
	b.visitMembers(c, id)
	return id
}

func (b *Builder) visitEnumConstant(c cursor.Cursor) ast.NodeID {
	id, _, _ := b.register(c, func() ast.Node {
		return &ast.EnumValue{Common: ast.Common{Name: c.Spelling()}, Value: c.EnumValue()}
	})
	return id
}

func (b *Builder) visitField(c cursor.Cursor) ast.NodeID {
	id, n, created := b.register(c, func() ast.Node {
		return &ast.Field{Common: ast.Common{Name: c.Spelling()}, Bits: c.BitWidth(), Offset: c.FieldOffset()}
	})
	if created {
		n.(*ast.Field).Type = b.typeOf(c.Type())
	}
	return id
}

func (b *Builder) visitFunction(c cursor.Cursor) ast.NodeID {
	id, n, created := b.register(c, func() ast.Node {
		return &ast.Function{
			Common:     ast.Common{Name: c.Spelling()},
			Variadic:   c.IsVariadic(),
			Attributes: attributes(c),
		}
	})
	if !created {
		return id
	}
	fn := n.(*ast.Function)
	fn.Returns = b.typeOf(c.ResultType())
	for _, arg := range c.Arguments() {
		a := &ast.Argument{
			Common: ast.Common{Name: arg.Spelling(), Location: location(arg), Context: id},
			Type:   b.typeOf(arg.Type()),
		}
		fn.Args = append(fn.Args, b.arena.Add(a))
	}
	return id
}

func attributes(c cursor.Cursor) []string {
	var attrs []string
	if sc := c.StorageClass(); sc != "" {
		attrs = append(attrs, sc)
	}
	if c.IsInline() {
		attrs = append(attrs, "inline")
	}
	return attrs
}

func (b *Builder) visitVariable(c cursor.Cursor) ast.NodeID {
	id, n, created := b.register(c, func() ast.Node {
		return &ast.Variable{Common: ast.Common{Name: c.Spelling()}, Init: c.Initializer()}
	})
	if created {
		n.(*ast.Variable).Type = b.typeOf(c.Type())
	}
	return id
}

// visitTypedef builds a Typedef unless the typedef merely repeats a tag
// name. An anonymous record or enumeration it names, possibly through
// qualifiers, is elided from its scope so the Typedef alone represents it.
func (b *Builder) visitTypedef(c cursor.Cursor) ast.NodeID {
	if id, ok := b.arena.Lookup(c.ID()); ok {
		return id
	}

	ref, key, ok := b.mapType(c.UnderlyingType(), b.depth)
	if !ok {
		ref = ast.Ref(b.arena.Unknown())
	}
	if key != "" {
		if target, found := b.arena.Lookup(key); found {
			if b.suppressTypedef(c, ref, target) {
				return ast.NoNode
			}
		} else {
			b.elisions = append(b.elisions, key)
		}
	}

	id, n, _ := b.register(c, func() ast.Node {
		return &ast.Typedef{Common: ast.Common{Name: c.Spelling()}}
	})
	if td, ok := n.(*ast.Typedef); ok {
		td.Type = ref
	}
	return id
}

// suppressTypedef elides an anonymous aggregate target and reports whether
// the typedef is an unqualified repeat of target's tag name.
func (b *Builder) suppressTypedef(c cursor.Cursor, ref ast.TypeRef, target ast.NodeID) bool {
	switch b.arena.Node(target).(type) {
	case *ast.Struct, *ast.Union, *ast.Enumeration:
	default:
		return false
	}
	switch name := b.arena.Node(target).Meta().Name; {
	case name == "":
		b.log.Debug("eliding anonymous aggregate", "typedef", c.Spelling())
		b.arena.Elide(target)
	case name == c.Spelling() && !ref.IsPending() && ref.ID() == target:
		b.arena.Alias(c.ID(), target)
		return true
	}
	return false
}

// elideDeferred elides anonymous aggregates that were still pending when
// their typedef was visited.
func (b *Builder) elideDeferred() {
	for _, key := range b.elisions {
		id, ok := b.arena.Lookup(key)
		if !ok {
			continue
		}
		switch b.arena.Node(id).(type) {
		case *ast.Struct, *ast.Union, *ast.Enumeration:
			if b.arena.Node(id).Meta().Name == "" {
				b.arena.Elide(id)
			}
		}
	}
}

// visitIgnored builds a placeholder for a declaration that is not
// modelled. Its children are visited under the enclosing scope and kept on
// the placeholder. A base specifier also records the base on its record.
func (b *Builder) visitIgnored(c cursor.Cursor) ast.NodeID {
	id, _, created := b.register(c, func() ast.Node {
		name := makeName(c.Spelling())
		if name == "" {
			name = undefinedName
		}
		return &ast.Ignored{Common: ast.Common{Name: name}}
	})
	if !created {
		return id
	}

	if c.Kind() == cursor.KindBaseSpecifier {
		if rec, ok := ast.RecordOf(b.arena.Node(b.scopes.top())); ok {
			rec.Bases = append(rec.Bases, b.typeOf(c.Type()))
		}
	}
	for _, child := range c.Children() {
		b.attach(id, b.visit(child))
	}
	return id
}
