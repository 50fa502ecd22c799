package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/cwrap/cwrap/internal/cursor"
)

// newCppParser creates a tree-sitter parser configured for C++.
func newCppParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	return parser, nil
}

// CppNodeKinds extends CNodeKinds with the C++ declaration nodes.
var CppNodeKinds = map[string]cursor.Kind{
	"class_specifier":            cursor.KindClassDecl,
	"namespace_definition":       cursor.KindNamespace,
	"linkage_specification":      cursor.KindLinkageSpec,
	"template_declaration":       cursor.KindTemplate,
	"alias_declaration":          cursor.KindTypedefDecl,
	"static_assert_declaration":  cursor.KindStaticAssert,
	"using_declaration":          cursor.KindUnexposedDecl,
	"namespace_alias_definition": cursor.KindUnexposedDecl,
	"friend_declaration":         cursor.KindUnexposedDecl,
	"concept_definition":         cursor.KindUnexposedDecl,
}
