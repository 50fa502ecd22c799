// Package cursor defines the contract between cwrap and the external C/C++
// parser that produces the declaration tree.
//
// A frontend turns a source file into a tree of Cursors. Each cursor carries
// a stable identity, a kind, a spelling, a location and, where it makes
// sense, a Type. The extract package walks this tree; it never looks at the
// parser's own data structures.
package cursor

import (
	"context"
	"errors"
	"fmt"
)

// ID is the stable identity of a semantic entity within one translation
// unit. Redeclarations of the same entity share an ID.
type ID string

// Location is a position in a source file. The zero value means the cursor
// has no originating file (builtin or implicit declarations).
type Location struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the location refers to a real file.
func (l Location) IsValid() bool {
	return l.File != ""
}

// String formats the location as file:line.
func (l Location) String() string {
	if !l.IsValid() {
		return "<builtin>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Cursor is one node of the parser's declaration tree.
type Cursor interface {
	// ID returns the stable identity of the entity the cursor declares.
	ID() ID
	Kind() Kind
	// Spelling is the declared name, empty for anonymous entities.
	Spelling() string
	// DisplayName is a human oriented name; for a translation unit it is
	// the file path.
	DisplayName() string
	Location() Location
	// Parent returns the identity of the semantic parent, or "" when unknown.
	Parent() ID
	Children() []Cursor

	// Type is the declared type of fields, variables, parameters and
	// records. Nil when the cursor has none.
	Type() Type
	// UnderlyingType is the aliased type of a typedef. Nil otherwise.
	UnderlyingType() Type
	// ResultType is the return type of a function. Nil otherwise.
	ResultType() Type
	// Arguments returns the parameter cursors of a function.
	Arguments() []Cursor

	// EnumValue is the value of an enum constant.
	EnumValue() int64
	// BitWidth is the width of a bit-field, -1 for ordinary fields.
	BitWidth() int
	// FieldOffset is the byte offset of a field, -1 when the parser does not
	// compute layouts.
	FieldOffset() int64
	// Initializer is the source text of a variable initializer.
	Initializer() string
	// StorageClass is "extern", "static" or "".
	StorageClass() string
	IsInline() bool
	IsVariadic() bool
	// IsDefinition reports whether the cursor is the defining declaration
	// (for records: has a body).
	IsDefinition() bool
}

// Type is the parser's description of a C/C++ type.
type Type interface {
	Kind() TypeKind
	Spelling() string
	// Canonical strips sugar such as typedefs and elaboration.
	Canonical() Type
	// Unqualified returns the type without const/volatile qualifiers.
	Unqualified() Type
	IsConst() bool
	IsVolatile() bool

	// Pointee is the target of a pointer or reference.
	Pointee() Type
	// Element is the element type of an array.
	Element() Type
	// ElementCount is the length of a constant array, -1 otherwise.
	ElementCount() int64

	// Declaration is the cursor declaring the named type (record, enum,
	// typedef), nil when there is none.
	Declaration() Cursor

	// Result and ArgTypes describe function prototypes.
	Result() Type
	ArgTypes() []Type
	IsVariadic() bool

	// Size and Align are in bytes, -1 when unknown.
	Size() int64
	Align() int64
}

// Severity classifies a parser diagnostic.
type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityIgnored:
		return "ignored"
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// FixIt is a replacement suggested by the parser.
type FixIt struct {
	Start       Location
	End         Location
	Replacement string
}

// Diagnostic is a message reported while parsing.
type Diagnostic struct {
	Severity Severity
	Location Location
	Category string
	Message  string
	FixIts   []FixIt
}

// String formats the diagnostic like a compiler message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// ParseOptions controls a frontend parse.
type ParseOptions struct {
	// Language forces "c" or "cpp"; empty selects by file extension.
	Language string
	// Incomplete tolerates syntax errors instead of failing the parse.
	Incomplete bool
	// DetailedPreprocessing records #define lines in TranslationUnit.Defines.
	DetailedPreprocessing bool
	// SkipFunctionBodies ignores function bodies. The tree-sitter frontend
	// never materializes bodies and treats it as always set.
	SkipFunctionBodies bool
}

// TranslationUnit is the result of one parse.
type TranslationUnit struct {
	Root        Cursor
	Diagnostics []Diagnostic
	// Defines holds one macro per line: "NAME(args) body" for function-like
	// macros, "NAME value" for object-like ones.
	Defines string
}

// ErrFatalParse marks a parse that produced no usable translation unit.
var ErrFatalParse = errors.New("fatal parse failure")

// Frontend parses a source buffer into a translation unit. Implementations
// return an error wrapping ErrFatalParse when nothing usable was produced;
// non-fatal problems are reported in TranslationUnit.Diagnostics.
type Frontend interface {
	Parse(ctx context.Context, path string, src []byte, opts ParseOptions) (*TranslationUnit, error)
}
