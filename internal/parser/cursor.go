package parser

import (
	"github.com/cwrap/cwrap/internal/cursor"
)

// node is a materialized cursor. Nodes are plain Go values and stay valid
// after the tree-sitter tree is released.
type node struct {
	id         cursor.ID
	kind       cursor.Kind
	name       string
	display    string
	loc        cursor.Location
	parent     cursor.ID
	children   []cursor.Cursor
	typ        cursor.Type
	underlying cursor.Type
	result     cursor.Type
	args       []cursor.Cursor
	value      int64
	bits       int
	init       string
	storage    string
	inline     bool
	variadic   bool
	definition bool
}

func (n *node) ID() cursor.ID               { return n.id }
func (n *node) Kind() cursor.Kind           { return n.kind }
func (n *node) Spelling() string            { return n.name }
func (n *node) Location() cursor.Location   { return n.loc }
func (n *node) Parent() cursor.ID           { return n.parent }
func (n *node) Children() []cursor.Cursor   { return n.children }
func (n *node) Type() cursor.Type           { return n.typ }
func (n *node) UnderlyingType() cursor.Type { return n.underlying }
func (n *node) ResultType() cursor.Type     { return n.result }
func (n *node) Arguments() []cursor.Cursor  { return n.args }
func (n *node) EnumValue() int64            { return n.value }
func (n *node) BitWidth() int               { return n.bits }
func (n *node) FieldOffset() int64          { return -1 }
func (n *node) Initializer() string         { return n.init }
func (n *node) StorageClass() string        { return n.storage }
func (n *node) IsInline() bool              { return n.inline }
func (n *node) IsVariadic() bool            { return n.variadic }
func (n *node) IsDefinition() bool          { return n.definition }

func (n *node) DisplayName() string {
	if n.display != "" {
		return n.display
	}
	return n.name
}

// ctype is a materialized type. Named types (records, enums, typedef
// names) are bound to their declaration lazily through the unit's symbol
// table, so a use may precede the declaration in the source.
type ctype struct {
	u          *unit
	kind       cursor.TypeKind
	spelling   string
	isConst    bool
	isVolatile bool
	pointee    cursor.Type
	elem       cursor.Type
	count      int64
	result     cursor.Type
	args       []cursor.Type
	variadic   bool

	// name and tag identify a named type; tag is the symbol table prefix
	// ("S", "U", "E" or "T").
	name     string
	tag      string
	decl     *node
	resolved bool
	// canonicalizing guards against typedef cycles in broken input.
	canonicalizing bool
}

func (t *ctype) Kind() cursor.TypeKind {
	t.resolve()
	return t.kind
}

func (t *ctype) Spelling() string {
	if t.isConst && t.isVolatile {
		return "const volatile " + t.spelling
	}
	if t.isConst {
		return "const " + t.spelling
	}
	if t.isVolatile {
		return "volatile " + t.spelling
	}
	return t.spelling
}

func (t *ctype) IsConst() bool        { return t.isConst }
func (t *ctype) IsVolatile() bool     { return t.isVolatile }
func (t *ctype) Pointee() cursor.Type { return t.pointee }
func (t *ctype) Element() cursor.Type { return t.elem }
func (t *ctype) ElementCount() int64  { return t.count }
func (t *ctype) Result() cursor.Type  { return t.result }
func (t *ctype) ArgTypes() []cursor.Type {
	return t.args
}
func (t *ctype) IsVariadic() bool { return t.variadic }

// Size and Align are not computed; tree-sitter has no layout information.
func (t *ctype) Size() int64  { return -1 }
func (t *ctype) Align() int64 { return -1 }

func (t *ctype) Unqualified() cursor.Type {
	if !t.isConst && !t.isVolatile {
		return t
	}
	u := *t
	u.isConst, u.isVolatile = false, false
	return &u
}

func (t *ctype) Canonical() cursor.Type {
	t.resolve()
	if t.kind != cursor.TypeTypedef || t.decl == nil || t.decl.underlying == nil || t.canonicalizing {
		return t
	}
	t.canonicalizing = true
	defer func() { t.canonicalizing = false }()
	return t.decl.underlying.Canonical()
}

func (t *ctype) Declaration() cursor.Cursor {
	t.resolve()
	if t.decl == nil {
		return nil
	}
	return t.decl
}

// resolve binds a named type to its declaration, preferring a definition.
// In C++ a bare name may also refer to a class or enum.
func (t *ctype) resolve() {
	if t.resolved || t.name == "" || t.u == nil {
		return
	}
	t.resolved = true

	if d := t.u.lookup(t.tag, t.name); d != nil {
		t.decl = d
		return
	}
	if t.tag != "T" || t.u.lang != Cpp {
		return
	}
	for _, tag := range []string{"S", "U", "E"} {
		if d := t.u.lookup(tag, t.name); d != nil {
			t.decl = d
			t.tag = tag
			if tag == "E" {
				t.kind = cursor.TypeEnum
			} else {
				t.kind = cursor.TypeRecord
			}
			return
		}
	}
}
