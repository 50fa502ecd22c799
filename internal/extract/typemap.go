package extract

import (
	"github.com/cwrap/cwrap/internal/ast"
	"github.com/cwrap/cwrap/internal/cursor"
)

// fundamentalNames spells builtin types the way C declarations do.
var fundamentalNames = map[cursor.TypeKind]string{
	cursor.TypeVoid:       "void",
	cursor.TypeBool:       "bool",
	cursor.TypeCharU:      "char",
	cursor.TypeCharS:      "char",
	cursor.TypeUChar:      "unsigned char",
	cursor.TypeSChar:      "signed char",
	cursor.TypeChar16:     "char16_t",
	cursor.TypeChar32:     "char32_t",
	cursor.TypeWChar:      "wchar_t",
	cursor.TypeUShort:     "unsigned short int",
	cursor.TypeUInt:       "unsigned int",
	cursor.TypeULong:      "unsigned long int",
	cursor.TypeULongLong:  "unsigned long long int",
	cursor.TypeUInt128:    "unsigned __int128",
	cursor.TypeShort:      "short int",
	cursor.TypeInt:        "int",
	cursor.TypeLong:       "long int",
	cursor.TypeLongLong:   "long long int",
	cursor.TypeInt128:     "__int128",
	cursor.TypeFloat:      "float",
	cursor.TypeDouble:     "double",
	cursor.TypeLongDouble: "long double",
}

// typeOf maps t for a declaration attribute. A type that maps to nothing
// becomes the unknown sentinel.
func (b *Builder) typeOf(t cursor.Type) ast.TypeRef {
	ref, _, ok := b.mapType(t, b.depth)
	if !ok {
		if t != nil {
			b.log.Warn("unmappable type", "type", t.Spelling(), "kind", t.Kind().String())
		}
		return ast.Ref(b.arena.Unknown())
	}
	return ref
}

// mapType converts t into a type node. It also returns the identity of the
// declaration behind the type, if any. ok is false only when t is nil or its
// pointee or enumeration could not be produced at all; every other failure
// degrades to the unknown sentinel.
func (b *Builder) mapType(t cursor.Type, depth int) (ref ast.TypeRef, key cursor.ID, ok bool) {
	return b.mapTypeCanon(t, depth, true)
}

func (b *Builder) mapTypeCanon(t cursor.Type, depth int, canonicalize bool) (ast.TypeRef, cursor.ID, bool) {
	if t == nil {
		return ast.TypeRef{}, "", false
	}
	if depth > b.maxDepth {
		b.log.Warn("type nesting too deep", "type", t.Spelling(), "depth", depth)
		unknown := b.arena.Unknown()
		b.arena.Report(ast.Unresolved{
			Node:   unknown,
			Kind:   ast.KindFundamentalType,
			Name:   t.Spelling(),
			Reason: ast.ReasonTooDeep,
		})
		return ast.Ref(unknown), "", true
	}

	if t.IsConst() || t.IsVolatile() {
		inner, key, ok := b.mapTypeCanon(t.Unqualified(), depth+1, canonicalize)
		if !ok {
			return ast.TypeRef{}, key, false
		}
		id := b.arena.Add(&ast.CvQualifiedType{Type: inner, Const: t.IsConst(), Volatile: t.IsVolatile()})
		return ast.Ref(id), key, true
	}

	kind := t.Kind()
	if name, ok := fundamentalNames[kind]; ok {
		return ast.Ref(b.fundamental(name)), "", true
	}

	switch kind {
	case cursor.TypeConstantArray, cursor.TypeIncompleteArray:
		elem, _, ok := b.mapTypeCanon(t.Element(), depth+1, true)
		if !ok {
			elem = ast.Ref(b.arena.Unknown())
		}
		last := int64(-1)
		if kind == cursor.TypeConstantArray {
			last = t.ElementCount() - 1
		}
		return ast.Ref(b.arena.Add(&ast.ArrayType{Type: elem, Min: 0, Max: last})), "", true

	case cursor.TypeTypedef:
		ft := &ast.FundamentalType{Common: ast.Common{Name: t.Spelling()}}
		if decl := t.Declaration(); decl != nil {
			ft.Name = decl.Spelling()
			ft.Decl = ast.Pending(decl.ID())
		}
		return ast.Ref(b.arena.Add(ft)), "", true

	case cursor.TypePointer, cursor.TypeLValueReference, cursor.TypeRValueReference:
		inner, _, ok := b.mapTypeCanon(t.Pointee(), depth+1, true)
		if !ok {
			return ast.TypeRef{}, "", false
		}
		id := b.arena.Add(&ast.PointerType{
			Type:      inner,
			Size:      t.Size(),
			Align:     t.Align(),
			Reference: kind != cursor.TypePointer,
		})
		return ast.Ref(id), "", true

	case cursor.TypeEnum:
		return b.declared(t, depth, true)

	case cursor.TypeFunctionProto, cursor.TypeFunctionNoProto:
		return ast.Ref(b.functionType(t, depth)), "", true

	case cursor.TypeUnexposed, cursor.TypeElaborated:
		if canonicalize {
			return b.mapTypeCanon(t.Canonical(), depth+1, false)
		}
	}
	return b.declared(t, depth, false)
}

func (b *Builder) functionType(t cursor.Type, depth int) ast.NodeID {
	ret, _, ok := b.mapTypeCanon(t.Result(), depth+1, true)
	if !ok {
		ret = ast.Ref(b.arena.Unknown())
	}
	fn := &ast.FunctionType{Returns: ret, Variadic: t.IsVariadic()}
	if t.Kind() == cursor.TypeFunctionProto {
		for _, at := range t.ArgTypes() {
			arg, _, ok := b.mapTypeCanon(at, depth+1, true)
			if !ok {
				arg = ast.Ref(b.arena.Unknown())
			}
			fn.Args = append(fn.Args, b.arena.Add(&ast.Argument{Type: arg}))
		}
	}
	return b.arena.Add(fn)
}

// declared resolves a type through the declaration behind it: the registry
// first, then on-demand construction. Past maxDepth the declaration is
// queued and a pending reference returned. For enumerations a failed
// construction yields nothing; other kinds degrade to the unknown sentinel.
func (b *Builder) declared(t cursor.Type, depth int, enum bool) (ast.TypeRef, cursor.ID, bool) {
	decl := t.Declaration()
	if decl == nil {
		if enum {
			return ast.TypeRef{}, "", false
		}
		b.log.Warn("unknown type", "type", t.Spelling(), "kind", t.Kind().String())
		return ast.Ref(b.arena.Unknown()), "", true
	}
	key := decl.ID()
	if id, ok := b.arena.Lookup(key); ok {
		return ast.Ref(id), key, true
	}
	if depth >= b.maxDepth {
		b.log.Debug("deferring declaration", "id", string(key), "depth", depth)
		b.deferred = append(b.deferred, decl)
		return ast.Pending(key), key, true
	}

	b.log.Debug("declaration not yet visited", "id", string(key), "kind", decl.Kind().String())
	if id := b.construct(decl, depth+1); id != ast.NoNode {
		return ast.Ref(id), key, true
	}
	if enum {
		return ast.TypeRef{}, key, false
	}
	b.log.Warn("cannot construct declaration for type", "type", t.Spelling(), "kind", decl.Kind().String())
	return ast.Ref(b.arena.Unknown()), "", true
}

func (b *Builder) fundamental(name string) ast.NodeID {
	if id, ok := b.fundamentals[name]; ok {
		return id
	}
	id := b.arena.Add(&ast.FundamentalType{Common: ast.Common{Name: name}})
	b.fundamentals[name] = id
	return id
}
