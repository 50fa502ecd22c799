// Package ast holds the typed declaration model produced from a cursor tree.
//
// Every node lives in an Arena and is addressed by NodeID. Nodes refer to
// each other through NodeIDs and TypeRefs; a TypeRef may still name a cursor
// identity while the tree is being built. Arena.Resolve substitutes those
// pending identities and hands out the resolved Tree.
package ast

import "fmt"

// Kind identifies a node variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindFile
	KindNamespace
	KindStruct
	KindUnion
	KindField
	KindEnumeration
	KindEnumValue
	KindTypedef
	KindFunction
	KindArgument
	KindFunctionType
	KindVariable
	KindPointerType
	KindArrayType
	KindCvQualifiedType
	KindFundamentalType
	KindMacro
	KindAlias
	KindIgnored
)

var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindFile:            "File",
	KindNamespace:       "Namespace",
	KindStruct:          "Struct",
	KindUnion:           "Union",
	KindField:           "Field",
	KindEnumeration:     "Enumeration",
	KindEnumValue:       "EnumValue",
	KindTypedef:         "Typedef",
	KindFunction:        "Function",
	KindArgument:        "Argument",
	KindFunctionType:    "FunctionType",
	KindVariable:        "Variable",
	KindPointerType:     "PointerType",
	KindArrayType:       "ArrayType",
	KindCvQualifiedType: "CvQualifiedType",
	KindFundamentalType: "FundamentalType",
	KindMacro:           "Macro",
	KindAlias:           "Alias",
	KindIgnored:         "Ignored",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// UnknownTypeName is the spelling of the sentinel type.
const UnknownTypeName = "unknown_type"

// Location is the file and line a declaration came from.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Common carries the attributes every node shares.
type Common struct {
	Name     string
	Location *Location
	// Context is the enclosing scope, NoNode at top level and for types.
	Context NodeID
}

// Meta returns the shared attributes.
func (c *Common) Meta() *Common { return c }

func (c *Common) sealed() {}

// Node is implemented by every node variant in this package.
type Node interface {
	Kind() Kind
	Meta() *Common
	sealed()
}

// File is a translation unit.
type File struct {
	Common
	Children []NodeID
}

// Namespace is a C++ namespace.
type Namespace struct {
	Common
	Members []NodeID
}

// Record is the body shared by Struct and Union.
type Record struct {
	Common
	Members []NodeID
	Bases   []TypeRef
	Size    int64
	Align   int64
	// Anonymous is set when the record had no spelling in the source.
	Anonymous bool
	// Elided is set when a typedef took over the record; it is then only
	// reachable through that Typedef.
	Elided bool
}

type Struct struct{ Record }

type Union struct{ Record }

// Field is a record member.
type Field struct {
	Common
	Type TypeRef
	// Bits is the bit-field width, -1 for ordinary fields.
	Bits int
	// Offset is the byte offset reported by the parser, -1 when unknown.
	Offset int64
}

type Enumeration struct {
	Common
	Values    []NodeID
	Size      int64
	Align     int64
	Anonymous bool
	Elided    bool
}

type EnumValue struct {
	Common
	Value int64
}

type Typedef struct {
	Common
	Type TypeRef
}

type Function struct {
	Common
	Returns  TypeRef
	Args     []NodeID
	Variadic bool
	// Attributes lists linkage keywords: extern, static, inline.
	Attributes []string
}

type Argument struct {
	Common
	Type TypeRef
}

// FunctionType is the type of a function pointer target.
type FunctionType struct {
	Common
	Returns  TypeRef
	Args     []NodeID
	Variadic bool
}

type Variable struct {
	Common
	Type TypeRef
	Init string
}

type PointerType struct {
	Common
	Type  TypeRef
	Size  int64
	Align int64
	// Reference marks a C++ lvalue or rvalue reference.
	Reference bool
}

// ArrayType spans indices Min..Max; Max is -1 for arrays of unknown length.
type ArrayType struct {
	Common
	Type TypeRef
	Min  int64
	Max  int64
}

type CvQualifiedType struct {
	Common
	Type     TypeRef
	Const    bool
	Volatile bool
}

// FundamentalType is a builtin type or a use of a typedef name. For
// typedef names Decl links to the declaring node when it is known.
type FundamentalType struct {
	Common
	Decl    TypeRef
	Unknown bool
}

// Macro is a function-like preprocessor macro.
type Macro struct {
	Common
	Args string
	Body string
}

// Alias is an object-like macro. Target is the declaration its value names;
// Of is the alias it names instead. Both are empty when the value is a
// literal or an expression.
type Alias struct {
	Common
	Value  string
	Target NodeID
	Of     *Alias
}

// Resolved reports whether the alias value named a declaration or alias.
func (a *Alias) Resolved() bool {
	return a.Target != NoNode || a.Of != nil
}

// Ignored stands in for declarations that are not modelled but whose
// children were visited.
type Ignored struct {
	Common
	Children []NodeID
}

func (*File) Kind() Kind            { return KindFile }
func (*Namespace) Kind() Kind       { return KindNamespace }
func (*Struct) Kind() Kind          { return KindStruct }
func (*Union) Kind() Kind           { return KindUnion }
func (*Field) Kind() Kind           { return KindField }
func (*Enumeration) Kind() Kind     { return KindEnumeration }
func (*EnumValue) Kind() Kind       { return KindEnumValue }
func (*Typedef) Kind() Kind         { return KindTypedef }
func (*Function) Kind() Kind        { return KindFunction }
func (*Argument) Kind() Kind        { return KindArgument }
func (*FunctionType) Kind() Kind    { return KindFunctionType }
func (*Variable) Kind() Kind        { return KindVariable }
func (*PointerType) Kind() Kind     { return KindPointerType }
func (*ArrayType) Kind() Kind       { return KindArrayType }
func (*CvQualifiedType) Kind() Kind { return KindCvQualifiedType }
func (*FundamentalType) Kind() Kind { return KindFundamentalType }
func (*Macro) Kind() Kind           { return KindMacro }
func (*Alias) Kind() Kind           { return KindAlias }
func (*Ignored) Kind() Kind         { return KindIgnored }

// RecordOf returns the record body of a Struct or Union node.
func RecordOf(n Node) (*Record, bool) {
	switch r := n.(type) {
	case *Struct:
		return &r.Record, true
	case *Union:
		return &r.Record, true
	}
	return nil, false
}
