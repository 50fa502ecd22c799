package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cwrap/cwrap/internal/cursor"
)

// primitiveKinds maps the builtin type keywords tree-sitter reports as
// primitive_type. Other primitive names (size_t, uint8_t and friends) are
// treated as typedef names.
var primitiveKinds = map[string]cursor.TypeKind{
	"void":     cursor.TypeVoid,
	"bool":     cursor.TypeBool,
	"_Bool":    cursor.TypeBool,
	"char":     cursor.TypeCharS,
	"int":      cursor.TypeInt,
	"float":    cursor.TypeFloat,
	"double":   cursor.TypeDouble,
	"wchar_t":  cursor.TypeWChar,
	"char16_t": cursor.TypeChar16,
	"char32_t": cursor.TypeChar32,
	"__int128": cursor.TypeInt128,
}

// declared is the outcome of applying a declarator to a base type.
type declared struct {
	name     string
	nameNode *sitter.Node
	typ      cursor.Type
	// fn is the function declarator that determines the declared entity
	// when it is a function.
	fn     *sitter.Node
	params []param
	init   *sitter.Node
}

type param struct {
	name string
	loc  cursor.Location
	typ  cursor.Type
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func builtin(kind cursor.TypeKind, spelling string) *ctype {
	return &ctype{kind: kind, spelling: spelling, count: -1}
}

// declType returns the base type of a declaration: its type specifier and
// the qualifiers written beside it. Tags defined by the specifier are
// returned as cursors.
func (u *unit) declType(n *sitter.Node, s scope) (cursor.Type, []cursor.Cursor) {
	t, pre := u.specifierType(n.ChildByFieldName("type"), s)
	var isConst, isVolatile bool
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "type_qualifier" {
			continue
		}
		switch strings.TrimSpace(u.text(child)) {
		case "const", "constexpr":
			isConst = true
		case "volatile":
			isVolatile = true
		}
	}
	return qualify(t, isConst, isVolatile), pre
}

func qualify(t cursor.Type, isConst, isVolatile bool) cursor.Type {
	ct, ok := t.(*ctype)
	if !ok || (!isConst && !isVolatile) {
		return t
	}
	q := *ct
	q.isConst = q.isConst || isConst
	q.isVolatile = q.isVolatile || isVolatile
	return &q
}

// specifierType maps a type specifier node.
func (u *unit) specifierType(n *sitter.Node, s scope) (cursor.Type, []cursor.Cursor) {
	if n == nil {
		return builtin(cursor.TypeInt, "int"), nil
	}
	switch n.Type() {
	case "primitive_type":
		name := u.text(n)
		if kind, ok := primitiveKinds[name]; ok {
			return builtin(kind, name), nil
		}
		return u.namedType(n), nil
	case "sized_type_specifier":
		return u.sizedType(n), nil
	case "struct_specifier", "union_specifier", "class_specifier", "enum_specifier":
		kind, _ := tagKind(n.Type())
		if n.ChildByFieldName("body") != nil {
			decl := u.tagDefinition(n, kind, s)
			return decl.typ, []cursor.Cursor{decl}
		}
		t := u.tagType(kind, u.text(n.ChildByFieldName("name")), nil)
		if fwd := u.implicitTag(n, t, s); fwd != nil && s.record == nil {
			return t, []cursor.Cursor{fwd}
		}
		return t, nil
	case "type_identifier", "qualified_identifier", "template_type", "scoped_type_identifier":
		return u.namedType(n), nil
	case "auto", "placeholder_type_specifier", "decltype":
		return &ctype{kind: cursor.TypeUnexposed, spelling: u.text(n), count: -1}, nil
	}
	return &ctype{kind: cursor.TypeUnexposed, spelling: collapse(u.text(n)), count: -1}, nil
}

// sizedType maps the modifier forms such as "unsigned long long int".
func (u *unit) sizedType(n *sitter.Node) cursor.Type {
	var unsigned, signed bool
	var long, short int
	base := ""
	for _, word := range strings.Fields(u.text(n)) {
		switch word {
		case "unsigned":
			unsigned = true
		case "signed":
			signed = true
		case "long":
			long++
		case "short":
			short++
		case "int":
		default:
			base = word
		}
	}

	switch base {
	case "char":
		switch {
		case unsigned:
			return builtin(cursor.TypeUChar, "unsigned char")
		case signed:
			return builtin(cursor.TypeSChar, "signed char")
		}
		return builtin(cursor.TypeCharS, "char")
	case "double":
		if long > 0 {
			return builtin(cursor.TypeLongDouble, "long double")
		}
		return builtin(cursor.TypeDouble, "double")
	case "__int128":
		if unsigned {
			return builtin(cursor.TypeUInt128, "unsigned __int128")
		}
		return builtin(cursor.TypeInt128, "__int128")
	}

	switch {
	case short > 0 && unsigned:
		return builtin(cursor.TypeUShort, "unsigned short")
	case short > 0:
		return builtin(cursor.TypeShort, "short")
	case long > 1 && unsigned:
		return builtin(cursor.TypeULongLong, "unsigned long long")
	case long > 1:
		return builtin(cursor.TypeLongLong, "long long")
	case long == 1 && unsigned:
		return builtin(cursor.TypeULong, "unsigned long")
	case long == 1:
		return builtin(cursor.TypeLong, "long")
	case unsigned:
		return builtin(cursor.TypeUInt, "unsigned int")
	}
	return builtin(cursor.TypeInt, "int")
}

// tagType returns the type of a struct, union, class or enum. decl is the
// definition when the specifier has a body; otherwise the type is bound
// by name on first use.
func (u *unit) tagType(kind cursor.Kind, name string, decl *node) *ctype {
	t := &ctype{u: u, kind: cursor.TypeRecord, name: name, tag: tagLetter(kind), count: -1}
	keyword := "struct"
	switch kind {
	case cursor.KindUnionDecl:
		keyword = "union"
	case cursor.KindClassDecl:
		keyword = "class"
	case cursor.KindEnumDecl:
		keyword = "enum"
		t.kind = cursor.TypeEnum
	}
	switch {
	case name == "":
		t.spelling = keyword + " (anonymous)"
	case u.lang == Cpp:
		t.spelling = name
	default:
		t.spelling = keyword + " " + name
	}
	if decl != nil {
		t.decl = decl
		t.resolved = true
	}
	return t
}

// namedType returns a type written as a bare name. It resolves to a
// typedef, or in C++ to a class or enum, when one is declared; otherwise
// it stays an opaque typedef name.
func (u *unit) namedType(n *sitter.Node) *ctype {
	spelling := collapse(u.text(n))
	name := spelling
	for n.Type() == "qualified_identifier" {
		inner := n.ChildByFieldName("name")
		if inner == nil {
			break
		}
		n = inner
		name = u.text(n)
	}
	if n.Type() == "template_type" {
		name = u.text(n.ChildByFieldName("name"))
	}
	return &ctype{u: u, kind: cursor.TypeTypedef, spelling: spelling, name: name, tag: "T", count: -1}
}

func pointerTo(t cursor.Type) *ctype {
	return &ctype{kind: cursor.TypePointer, spelling: t.Spelling() + " *", pointee: t, count: -1}
}

// declarator applies d to base, outermost layer first. A nil declarator
// declares nothing but still yields the base type.
func (u *unit) declarator(base cursor.Type, d *sitter.Node, s scope) declared {
	out := declared{typ: base}
	for d != nil {
		switch d.Type() {
		case "init_declarator":
			out.init = d.ChildByFieldName("value")
			d = d.ChildByFieldName("declarator")

		case "pointer_declarator", "abstract_pointer_declarator":
			var isConst, isVolatile bool
			for i := 0; i < int(d.NamedChildCount()); i++ {
				if q := d.NamedChild(i); q.Type() == "type_qualifier" {
					switch strings.TrimSpace(u.text(q)) {
					case "const":
						isConst = true
					case "volatile":
						isVolatile = true
					}
				}
			}
			out.typ = qualify(pointerTo(out.typ), isConst, isVolatile)
			out.fn, out.params = nil, nil
			d = d.ChildByFieldName("declarator")

		case "reference_declarator", "abstract_reference_declarator":
			kind := cursor.TypeLValueReference
			if strings.HasPrefix(strings.TrimSpace(u.text(d)), "&&") {
				kind = cursor.TypeRValueReference
			}
			out.typ = &ctype{kind: kind, spelling: out.typ.Spelling() + " &", pointee: out.typ, count: -1}
			out.fn, out.params = nil, nil
			d = lastNamed(d)

		case "array_declarator", "abstract_array_declarator":
			out.typ = u.arrayOf(out.typ, d.ChildByFieldName("size"))
			out.fn, out.params = nil, nil
			d = d.ChildByFieldName("declarator")

		case "function_declarator", "abstract_function_declarator":
			out.typ, out.params = u.functionOf(out.typ, d.ChildByFieldName("parameters"), s)
			out.fn = d
			d = d.ChildByFieldName("declarator")

		case "parenthesized_declarator", "abstract_parenthesized_declarator", "attributed_declarator":
			if d.NamedChildCount() == 0 {
				return out
			}
			d = d.NamedChild(0)

		case "identifier", "field_identifier", "type_identifier", "primitive_type",
			"qualified_identifier", "destructor_name", "operator_name", "operator_cast":
			out.name = u.text(d)
			if d.Type() == "qualified_identifier" {
				if inner := d.ChildByFieldName("name"); inner != nil {
					out.name = u.text(inner)
				}
			}
			out.nameNode = d
			return out

		default:
			return out
		}
	}
	return out
}

func lastNamed(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(int(n.NamedChildCount()) - 1)
}

func (u *unit) arrayOf(elem cursor.Type, size *sitter.Node) *ctype {
	if size == nil {
		return &ctype{kind: cursor.TypeIncompleteArray, spelling: elem.Spelling() + " []", elem: elem, count: -1}
	}
	count, ok := u.evalConst(size)
	if !ok {
		u.diags = append(u.diags, cursor.Diagnostic{
			Severity: cursor.SeverityWarning,
			Location: u.location(size),
			Category: "Semantic Issue",
			Message:  "cannot evaluate array size '" + collapse(u.text(size)) + "'",
		})
		return &ctype{kind: cursor.TypeIncompleteArray, spelling: elem.Spelling() + " []", elem: elem, count: -1}
	}
	return &ctype{
		kind:     cursor.TypeConstantArray,
		spelling: elem.Spelling() + " [" + itoa(count) + "]",
		elem:     elem,
		count:    count,
	}
}

// functionOf builds a function type returning result. An empty C parameter
// list declares a function without a prototype.
func (u *unit) functionOf(result cursor.Type, list *sitter.Node, s scope) (*ctype, []param) {
	ft := &ctype{kind: cursor.TypeFunctionProto, result: result, count: -1}
	params, variadic, explicit := u.parameterList(list, s)
	if u.lang == C && !explicit {
		ft.kind = cursor.TypeFunctionNoProto
	}
	ft.variadic = variadic

	spellings := make([]string, 0, len(params)+1)
	for _, p := range params {
		ft.args = append(ft.args, p.typ)
		spellings = append(spellings, p.typ.Spelling())
	}
	if variadic {
		spellings = append(spellings, "...")
	}
	ft.spelling = result.Spelling() + " (" + strings.Join(spellings, ", ") + ")"
	return ft, params
}

// parameterList maps the parameters of a function declarator. explicit
// reports whether anything was written between the parentheses.
func (u *unit) parameterList(list *sitter.Node, s scope) (params []param, variadic, explicit bool) {
	if list == nil {
		return nil, false, false
	}
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		switch p.Type() {
		case "variadic_parameter", "variadic_parameter_declaration":
			variadic, explicit = true, true
			continue
		case "parameter_declaration", "optional_parameter_declaration":
		default:
			continue
		}
		explicit = true

		base, _ := u.declType(p, s)
		d := p.ChildByFieldName("declarator")
		if d == nil && rawKind(base) == cursor.TypeVoid && list.NamedChildCount() == 1 {
			return nil, false, true
		}
		dd := u.declarator(base, d, s)
		params = append(params, param{name: dd.name, loc: u.location(p), typ: decay(dd.typ)})
	}
	return params, variadic, explicit
}

// decay adjusts array and function parameter types to pointers. Named
// types are left unresolved so they can bind to later declarations.
func decay(t cursor.Type) cursor.Type {
	switch rawKind(t) {
	case cursor.TypeConstantArray, cursor.TypeIncompleteArray:
		return pointerTo(t.Element())
	case cursor.TypeFunctionProto, cursor.TypeFunctionNoProto:
		return pointerTo(t)
	}
	return t
}

// rawKind returns the kind of t as written, without binding a named type
// to its declaration.
func rawKind(t cursor.Type) cursor.TypeKind {
	if ct, ok := t.(*ctype); ok {
		return ct.kind
	}
	return t.Kind()
}
