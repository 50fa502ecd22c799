package output

import "github.com/cwrap/cwrap/internal/ast"

// Document is the rendered form of one header.
type Document struct {
	// File is the path of the translation unit.
	File string `yaml:"file" json:"file"`

	// Declarations lists the declarations in source order; declarations
	// first reached through a type follow in construction order.
	Declarations []*Declaration `yaml:"declarations" json:"declarations"`

	// Aliases lists the object-like macros.
	Aliases []*AliasOutput `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// Macros lists the function-like macros.
	Macros []*MacroOutput `yaml:"macros,omitempty" json:"macros,omitempty"`

	// Diagnostics contains the parser's diagnostics.
	Diagnostics []*DiagnosticOutput `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`

	// Unresolved contains the references the fixup pass could not resolve
	// (dense mode only).
	Unresolved []*UnresolvedOutput `yaml:"unresolved,omitempty" json:"unresolved,omitempty"`

	// Summary counts declarations by kind.
	Summary *Summary `yaml:"summary" json:"summary"`
}

// Declaration is one declaration node.
type Declaration struct {
	ID       ast.NodeID `yaml:"id" json:"id"`
	Kind     string     `yaml:"kind" json:"kind"`
	Name     string     `yaml:"name,omitempty" json:"name,omitempty"`
	Location string     `yaml:"location,omitempty" json:"location,omitempty"`

	// Context is the id of the enclosing scope (dense mode only).
	Context ast.NodeID `yaml:"context,omitempty" json:"context,omitempty"`

	// Type is the type of a typedef or variable.
	Type *TypeOutput `yaml:"type,omitempty" json:"type,omitempty"`

	// Returns and Arguments describe a function.
	Returns    *TypeOutput `yaml:"returns,omitempty" json:"returns,omitempty"`
	Arguments  []*Member   `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Variadic   bool        `yaml:"variadic,omitempty" json:"variadic,omitempty"`
	Attributes []string    `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	// Members holds record fields and enumeration values.
	Members []*Member     `yaml:"members,omitempty" json:"members,omitempty"`
	Bases   []*TypeOutput `yaml:"bases,omitempty" json:"bases,omitempty"`

	// Children holds the ids of namespace members.
	Children []ast.NodeID `yaml:"children,omitempty" json:"children,omitempty"`

	Anonymous bool `yaml:"anonymous,omitempty" json:"anonymous,omitempty"`
	// Elided marks a record only reachable through its typedef (dense mode only).
	Elided bool `yaml:"elided,omitempty" json:"elided,omitempty"`

	// Size and Align are in bytes when the parser reported them (dense mode only).
	Size  *int64 `yaml:"size,omitempty" json:"size,omitempty"`
	Align *int64 `yaml:"align,omitempty" json:"align,omitempty"`

	// Init is the initializer text of a variable.
	Init string `yaml:"init,omitempty" json:"init,omitempty"`
}

// Member is a field, enumeration value or argument.
type Member struct {
	ID   ast.NodeID  `yaml:"id" json:"id"`
	Name string      `yaml:"name,omitempty" json:"name,omitempty"`
	Type *TypeOutput `yaml:"type,omitempty" json:"type,omitempty"`

	// Value is set for enumeration values.
	Value *int64 `yaml:"value,omitempty" json:"value,omitempty"`

	// Bits is set for bit-fields.
	Bits *int `yaml:"bits,omitempty" json:"bits,omitempty"`

	// Offset is the byte offset of a field (dense mode only).
	Offset *int64 `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// TypeOutput is an inline type tree.
//
// Kind is one of: fundamental, pointer, reference, array, cv, function, or
// the kind of the named declaration the type refers to (struct, union,
// enumeration, typedef).
type TypeOutput struct {
	Kind string `yaml:"kind" json:"kind"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Ref is the id of the declaration behind a named type.
	Ref ast.NodeID `yaml:"ref,omitempty" json:"ref,omitempty"`

	Const    bool `yaml:"const,omitempty" json:"const,omitempty"`
	Volatile bool `yaml:"volatile,omitempty" json:"volatile,omitempty"`

	// Min and Max bound an array; Max is -1 when the length is unknown.
	Min *int64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *int64 `yaml:"max,omitempty" json:"max,omitempty"`

	// Of is the pointee, element or qualified type.
	Of *TypeOutput `yaml:"of,omitempty" json:"of,omitempty"`

	Returns  *TypeOutput   `yaml:"returns,omitempty" json:"returns,omitempty"`
	Args     []*TypeOutput `yaml:"args,omitempty" json:"args,omitempty"`
	Variadic bool          `yaml:"variadic,omitempty" json:"variadic,omitempty"`

	// Unknown marks the sentinel for types that could not be mapped.
	Unknown bool `yaml:"unknown,omitempty" json:"unknown,omitempty"`
}

// AliasOutput is an object-like macro.
type AliasOutput struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`

	// Target is the id of the declaration the value names.
	Target ast.NodeID `yaml:"target,omitempty" json:"target,omitempty"`

	// Of is the name of the alias the value names.
	Of string `yaml:"of,omitempty" json:"of,omitempty"`
}

// MacroOutput is a function-like macro.
type MacroOutput struct {
	Name string `yaml:"name" json:"name"`
	Args string `yaml:"args" json:"args"`
	Body string `yaml:"body" json:"body"`
}

// DiagnosticOutput is a parser diagnostic.
type DiagnosticOutput struct {
	Severity string   `yaml:"severity" json:"severity"`
	Location string   `yaml:"location" json:"location"`
	Category string   `yaml:"category,omitempty" json:"category,omitempty"`
	Message  string   `yaml:"message" json:"message"`
	FixIts   []string `yaml:"fixits,omitempty" json:"fixits,omitempty"`
}

// UnresolvedOutput is a reference the fixup pass could not resolve.
type UnresolvedOutput struct {
	Node   ast.NodeID `yaml:"node" json:"node"`
	Kind   string     `yaml:"kind" json:"kind"`
	Name   string     `yaml:"name,omitempty" json:"name,omitempty"`
	Key    string     `yaml:"key,omitempty" json:"key,omitempty"`
	Reason string     `yaml:"reason" json:"reason"`
}

// Summary counts what the document contains.
type Summary struct {
	Declarations int            `yaml:"declarations" json:"declarations"`
	ByKind       map[string]int `yaml:"by_kind,omitempty" json:"by_kind,omitempty"`
	Aliases      int            `yaml:"aliases" json:"aliases"`
	Macros       int            `yaml:"macros" json:"macros"`
	Diagnostics  int            `yaml:"diagnostics" json:"diagnostics"`
	Unresolved   int            `yaml:"unresolved" json:"unresolved"`
}

// MacrosDocument is the alias and macro table alone.
type MacrosDocument struct {
	File    string         `yaml:"file" json:"file"`
	Aliases []*AliasOutput `yaml:"aliases" json:"aliases"`
	Macros  []*MacroOutput `yaml:"macros" json:"macros"`
}
