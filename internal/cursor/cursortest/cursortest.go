// Package cursortest builds in-memory cursor trees for tests of code that
// consumes the cursor package.
package cursortest

import (
	"fmt"

	"github.com/cwrap/cwrap/internal/cursor"
)

// Cursor is a plain implementation of cursor.Cursor.
type Cursor struct {
	Key        cursor.ID
	K          cursor.Kind
	Name       string
	Display    string
	Loc        cursor.Location
	ParentKey  cursor.ID
	Kids       []*Cursor
	Typ        *Type
	Underlying *Type
	Result     *Type
	Params     []*Cursor
	Value      int64
	Bits       int
	Offset     int64
	Init       string
	Storage    string
	Inline     bool
	Variadic   bool
	Definition bool
}

func (c *Cursor) ID() cursor.ID               { return c.Key }
func (c *Cursor) Kind() cursor.Kind           { return c.K }
func (c *Cursor) Spelling() string            { return c.Name }
func (c *Cursor) Location() cursor.Location   { return c.Loc }
func (c *Cursor) Parent() cursor.ID           { return c.ParentKey }
func (c *Cursor) Type() cursor.Type           { return typeOrNil(c.Typ) }
func (c *Cursor) UnderlyingType() cursor.Type { return typeOrNil(c.Underlying) }
func (c *Cursor) ResultType() cursor.Type     { return typeOrNil(c.Result) }
func (c *Cursor) EnumValue() int64            { return c.Value }
func (c *Cursor) BitWidth() int               { return c.Bits }
func (c *Cursor) FieldOffset() int64          { return c.Offset }
func (c *Cursor) Initializer() string         { return c.Init }
func (c *Cursor) StorageClass() string        { return c.Storage }
func (c *Cursor) IsInline() bool              { return c.Inline }
func (c *Cursor) IsVariadic() bool            { return c.Variadic }
func (c *Cursor) IsDefinition() bool          { return c.Definition }

func (c *Cursor) DisplayName() string {
	if c.Display != "" {
		return c.Display
	}
	return c.Name
}

func (c *Cursor) Children() []cursor.Cursor {
	out := make([]cursor.Cursor, len(c.Kids))
	for i, k := range c.Kids {
		out[i] = k
	}
	return out
}

func (c *Cursor) Arguments() []cursor.Cursor {
	out := make([]cursor.Cursor, len(c.Params))
	for i, p := range c.Params {
		out[i] = p
	}
	return out
}

// Type is a plain implementation of cursor.Type.
type Type struct {
	K          cursor.TypeKind
	Name       string
	Canon      *Type
	Const      bool
	Volatile   bool
	Target     *Type
	Elem       *Type
	Count      int64
	Decl       *Cursor
	Ret        *Type
	Args       []*Type
	Variadic   bool
	SizeBytes  int64
	AlignBytes int64
}

func (t *Type) Kind() cursor.TypeKind { return t.K }
func (t *Type) Spelling() string      { return t.Name }
func (t *Type) IsConst() bool         { return t.Const }
func (t *Type) IsVolatile() bool      { return t.Volatile }
func (t *Type) Pointee() cursor.Type  { return typeOrNil(t.Target) }
func (t *Type) Element() cursor.Type  { return typeOrNil(t.Elem) }
func (t *Type) ElementCount() int64   { return t.Count }
func (t *Type) Result() cursor.Type   { return typeOrNil(t.Ret) }
func (t *Type) IsVariadic() bool      { return t.Variadic }
func (t *Type) Size() int64           { return t.SizeBytes }
func (t *Type) Align() int64          { return t.AlignBytes }

func (t *Type) Canonical() cursor.Type {
	if t.Canon != nil {
		return t.Canon
	}
	return t
}

func (t *Type) Unqualified() cursor.Type {
	if !t.Const && !t.Volatile {
		return t
	}
	u := *t
	u.Const, u.Volatile = false, false
	return &u
}

func (t *Type) Declaration() cursor.Cursor {
	if t.Decl == nil {
		return nil
	}
	return t.Decl
}

func (t *Type) ArgTypes() []cursor.Type {
	out := make([]cursor.Type, len(t.Args))
	for i, a := range t.Args {
		out[i] = a
	}
	return out
}

func typeOrNil(t *Type) cursor.Type {
	if t == nil {
		return nil
	}
	return t
}

// Builder hands out identities and line numbers for cursors in one file.
type Builder struct {
	File string
	line int
	anon int
}

// NewBuilder returns a builder whose cursors are located in file.
func NewBuilder(file string) *Builder {
	return &Builder{File: file}
}

func (b *Builder) loc() cursor.Location {
	b.line++
	return cursor.Location{File: b.File, Line: b.line}
}

func (b *Builder) key(prefix, name string) cursor.ID {
	if name == "" {
		b.anon++
		return cursor.ID(fmt.Sprintf("c:%s@%s@anon%d", b.File, prefix, b.anon))
	}
	return cursor.ID(fmt.Sprintf("c:@%s@%s", prefix, name))
}

// TU builds a translation unit cursor. It has no location, like the root
// cursor of a real parser.
func (b *Builder) TU(kids ...*Cursor) *Cursor {
	tu := &Cursor{
		Key:     cursor.ID("c:" + b.File),
		K:       cursor.KindTranslationUnit,
		Display: b.File,
	}
	adopt(tu, kids)
	return tu
}

// Decl builds a cursor of an arbitrary kind.
func (b *Builder) Decl(kind cursor.Kind, name string, kids ...*Cursor) *Cursor {
	c := &Cursor{
		Key:  b.key(kind.String(), name),
		K:    kind,
		Name: name,
		Loc:  b.loc(),
		Bits: -1,
	}
	adopt(c, kids)
	return c
}

func (b *Builder) record(kind cursor.Kind, prefix, name string, fields []*Cursor) *Cursor {
	c := &Cursor{
		Key:        b.key(prefix, name),
		K:          kind,
		Name:       name,
		Loc:        b.loc(),
		Bits:       -1,
		Definition: true,
	}
	c.Typ = &Type{K: cursor.TypeRecord, Name: name, Decl: c, SizeBytes: -1, AlignBytes: -1, Count: -1}
	adopt(c, fields)
	return c
}

// Struct builds a struct definition.
func (b *Builder) Struct(name string, fields ...*Cursor) *Cursor {
	return b.record(cursor.KindStructDecl, "S", name, fields)
}

// Union builds a union definition.
func (b *Builder) Union(name string, fields ...*Cursor) *Cursor {
	return b.record(cursor.KindUnionDecl, "U", name, fields)
}

// Class builds a C++ class definition.
func (b *Builder) Class(name string, members ...*Cursor) *Cursor {
	return b.record(cursor.KindClassDecl, "C", name, members)
}

// Enum builds an enum definition.
func (b *Builder) Enum(name string, constants ...*Cursor) *Cursor {
	c := &Cursor{
		Key:        b.key("E", name),
		K:          cursor.KindEnumDecl,
		Name:       name,
		Loc:        b.loc(),
		Bits:       -1,
		Definition: true,
	}
	c.Typ = &Type{K: cursor.TypeEnum, Name: name, Decl: c, SizeBytes: 4, AlignBytes: 4, Count: -1}
	adopt(c, constants)
	return c
}

// EnumConst builds an enum constant.
func (b *Builder) EnumConst(name string, value int64) *Cursor {
	return &Cursor{
		Key:   b.key("EC", name),
		K:     cursor.KindEnumConstantDecl,
		Name:  name,
		Loc:   b.loc(),
		Value: value,
		Bits:  -1,
	}
}

// Field builds a field of type t.
func (b *Builder) Field(name string, t *Type) *Cursor {
	return &Cursor{
		Key:    b.key("FI", name),
		K:      cursor.KindFieldDecl,
		Name:   name,
		Loc:    b.loc(),
		Typ:    t,
		Bits:   -1,
		Offset: -1,
	}
}

// Typedef builds a typedef of underlying.
func (b *Builder) Typedef(name string, underlying *Type) *Cursor {
	c := &Cursor{
		Key:        b.key("T", name),
		K:          cursor.KindTypedefDecl,
		Name:       name,
		Loc:        b.loc(),
		Underlying: underlying,
		Bits:       -1,
	}
	c.Typ = &Type{K: cursor.TypeTypedef, Name: name, Decl: c, Canon: underlying.canonical(), Count: -1}
	return c
}

// Func builds a function declaration.
func (b *Builder) Func(name string, ret *Type, params ...*Cursor) *Cursor {
	c := &Cursor{
		Key:    b.key("F", name),
		K:      cursor.KindFunctionDecl,
		Name:   name,
		Loc:    b.loc(),
		Result: ret,
		Params: params,
		Bits:   -1,
	}
	args := make([]*Type, len(params))
	for i, p := range params {
		args[i] = p.Typ
	}
	c.Typ = FuncProto(ret, args...)
	for _, p := range params {
		p.ParentKey = c.Key
	}
	return c
}

// Param builds a function parameter.
func (b *Builder) Param(name string, t *Type) *Cursor {
	return &Cursor{
		Key:  b.key("P", name),
		K:    cursor.KindParmDecl,
		Name: name,
		Loc:  b.loc(),
		Typ:  t,
		Bits: -1,
	}
}

// Var builds a variable declaration.
func (b *Builder) Var(name string, t *Type) *Cursor {
	return &Cursor{
		Key:  b.key("V", name),
		K:    cursor.KindVarDecl,
		Name: name,
		Loc:  b.loc(),
		Typ:  t,
		Bits: -1,
	}
}

func adopt(parent *Cursor, kids []*Cursor) {
	for _, k := range kids {
		k.ParentKey = parent.Key
	}
	parent.Kids = append(parent.Kids, kids...)
}

func (t *Type) canonical() *Type {
	if t.Canon != nil {
		return t.Canon
	}
	return t
}

// Builtin returns a fundamental type.
func Builtin(kind cursor.TypeKind, spelling string) *Type {
	return &Type{K: kind, Name: spelling, Count: -1, SizeBytes: -1, AlignBytes: -1}
}

// Int returns the int type.
func Int() *Type { return Builtin(cursor.TypeInt, "int") }

// Char returns plain char.
func Char() *Type { return Builtin(cursor.TypeCharS, "char") }

// Void returns void.
func Void() *Type { return Builtin(cursor.TypeVoid, "void") }

// PointerTo returns a pointer to t.
func PointerTo(t *Type) *Type {
	return &Type{K: cursor.TypePointer, Name: t.Name + " *", Target: t, Count: -1, SizeBytes: 8, AlignBytes: 8}
}

// ArrayOf returns a constant array of n elements of t.
func ArrayOf(t *Type, n int64) *Type {
	return &Type{K: cursor.TypeConstantArray, Name: fmt.Sprintf("%s[%d]", t.Name, n), Elem: t, Count: n, SizeBytes: -1, AlignBytes: -1}
}

// IncompleteArrayOf returns an array of unknown length.
func IncompleteArrayOf(t *Type) *Type {
	return &Type{K: cursor.TypeIncompleteArray, Name: t.Name + "[]", Elem: t, Count: -1, SizeBytes: -1, AlignBytes: -1}
}

// Const returns a const-qualified copy of t.
func Const(t *Type) *Type {
	c := *t
	c.Const = true
	c.Name = "const " + t.Name
	return &c
}

// RecordOf returns the record type declared by decl.
func RecordOf(decl *Cursor) *Type {
	return &Type{K: cursor.TypeRecord, Name: decl.Name, Decl: decl, Count: -1, SizeBytes: -1, AlignBytes: -1}
}

// EnumOf returns the enum type declared by decl.
func EnumOf(decl *Cursor) *Type {
	return &Type{K: cursor.TypeEnum, Name: decl.Name, Decl: decl, Count: -1, SizeBytes: -1, AlignBytes: -1}
}

// TypedefOf returns the typedef-name type declared by decl.
func TypedefOf(decl *Cursor) *Type {
	return decl.Typ
}

// FuncProto returns a function prototype type.
func FuncProto(ret *Type, args ...*Type) *Type {
	return &Type{K: cursor.TypeFunctionProto, Name: "fn", Ret: ret, Args: args, Count: -1, SizeBytes: -1, AlignBytes: -1}
}

// Unexposed returns a type the parser could not classify, whose canonical
// form is canon.
func Unexposed(canon *Type) *Type {
	return &Type{K: cursor.TypeUnexposed, Name: "unexposed", Canon: canon, Count: -1, SizeBytes: -1, AlignBytes: -1}
}
