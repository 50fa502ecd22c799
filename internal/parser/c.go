package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/cwrap/cwrap/internal/cursor"
)

// newCParser creates a tree-sitter parser configured for C.
func newCParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	return parser, nil
}

// CNodeKinds maps the tree-sitter C node types that declare something to
// the cursor kind they produce. Declarations and typedefs can produce
// several cursors; the kind listed is the one for a plain declarator.
// Node types missing from the table (comments, access specifiers, ERROR)
// declare nothing.
var CNodeKinds = map[string]cursor.Kind{
	"function_definition":   cursor.KindFunctionDecl,
	"declaration":           cursor.KindVarDecl,
	"struct_specifier":      cursor.KindStructDecl,
	"union_specifier":       cursor.KindUnionDecl,
	"enum_specifier":        cursor.KindEnumDecl,
	"enumerator":            cursor.KindEnumConstantDecl,
	"field_declaration":     cursor.KindFieldDecl,
	"type_definition":       cursor.KindTypedefDecl,
	"parameter_declaration": cursor.KindParmDecl,
	"preproc_def":           cursor.KindMacroDefinition,
	"preproc_function_def":  cursor.KindMacroDefinition,
	"preproc_include":       cursor.KindInclusionDirective,
}

// tagKind returns the cursor kind of a struct, union, class or enum
// specifier.
func tagKind(nodeType string) (cursor.Kind, bool) {
	switch nodeType {
	case "struct_specifier":
		return cursor.KindStructDecl, true
	case "union_specifier":
		return cursor.KindUnionDecl, true
	case "class_specifier":
		return cursor.KindClassDecl, true
	case "enum_specifier":
		return cursor.KindEnumDecl, true
	}
	return cursor.KindInvalid, false
}
