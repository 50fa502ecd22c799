package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cwrap/cwrap/internal/cursor"
)

const testCSource = `#include <stddef.h>

#define VERSION 3

/* A point in the plane. */
struct point {
	int x;
	int y;
};

typedef struct point point_t;

enum color { RED, GREEN = 4, BLUE };

int distance(const point_t *a, const point_t *b);

static inline int square(int v) {
	return v * v;
}
`

func TestNewParser(t *testing.T) {
	t.Run("creates C parser", func(t *testing.T) {
		p, err := NewParser(C)
		if err != nil {
			t.Fatalf("NewParser(C) failed: %v", err)
		}
		defer p.Close()

		if p.Language() != C {
			t.Errorf("expected language %s, got %s", C, p.Language())
		}
	})

	t.Run("creates C++ parser", func(t *testing.T) {
		p, err := NewParser(Cpp)
		if err != nil {
			t.Fatalf("NewParser(Cpp) failed: %v", err)
		}
		defer p.Close()
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		_, err := NewParser(Language("fortran"))
		if err == nil {
			t.Fatal("expected error for unsupported language")
		}

		if _, ok := err.(*UnsupportedLanguageError); !ok {
			t.Errorf("expected UnsupportedLanguageError, got %T", err)
		}
		if !errors.Is(err, cursor.ErrFatalParse) {
			t.Error("expected unsupported language to be a fatal parse error")
		}
	})
}

func TestParser_Parse(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("parses valid C source", func(t *testing.T) {
		result, err := p.Parse(context.Background(), []byte(testCSource))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if result.Root == nil {
			t.Fatal("expected non-nil root node")
		}
		if result.Root.Type() != "translation_unit" {
			t.Errorf("expected root type 'translation_unit', got %q", result.Root.Type())
		}
		if result.Language != C {
			t.Errorf("expected language %s, got %s", C, result.Language)
		}
	})

	t.Run("preserves source", func(t *testing.T) {
		source := []byte(testCSource)
		result, err := p.Parse(context.Background(), source)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if string(result.Source) != string(source) {
			t.Error("source was not preserved")
		}
	})
}

func TestParser_ParseFile(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("records the path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "point.h")
		if err := os.WriteFile(path, []byte(testCSource), 0o644); err != nil {
			t.Fatal(err)
		}
		result, err := p.ParseFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ParseFile failed: %v", err)
		}
		defer result.Close()

		if result.FilePath != path {
			t.Errorf("expected path %q, got %q", path, result.FilePath)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.h"))
		var readErr *FileReadError
		if !errors.As(err, &readErr) {
			t.Fatalf("expected FileReadError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("expected the underlying not-exist error")
		}
		if !errors.Is(err, cursor.ErrFatalParse) {
			t.Error("expected a fatal parse error")
		}
	})
}

func TestParseResult_Nodes(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	result, err := p.Parse(context.Background(), []byte(testCSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer result.Close()

	t.Run("finds function definitions", func(t *testing.T) {
		defs := findNodes(result, "function_definition")
		if len(defs) != 1 {
			t.Fatalf("expected 1 function_definition, got %d", len(defs))
		}
	})

	t.Run("finds enumerators", func(t *testing.T) {
		enumerators := findNodes(result, "enumerator")
		if len(enumerators) != 3 {
			t.Errorf("expected 3 enumerators, got %d", len(enumerators))
		}
	})

	t.Run("finds macros", func(t *testing.T) {
		macros := findNodes(result, "preproc_def")
		if len(macros) != 1 {
			t.Fatalf("expected 1 preproc_def, got %d", len(macros))
		}
		if got := result.NodeText(macros[0].ChildByFieldName("name")); got != "VERSION" {
			t.Errorf("expected macro name VERSION, got %q", got)
		}
	})
}

func TestParseResult_WalkNodes(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	result, err := p.Parse(context.Background(), []byte(testCSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer result.Close()

	t.Run("visits all nodes", func(t *testing.T) {
		count := 0
		result.WalkNodes(func(node *sitter.Node) bool {
			count++
			return true
		})
		if count == 0 {
			t.Error("expected to visit some nodes")
		}
	})

	t.Run("skips children on false", func(t *testing.T) {
		count := 0
		result.WalkNodes(func(node *sitter.Node) bool {
			count++
			return false
		})
		if count != 1 {
			t.Errorf("expected to visit only the root, visited %d", count)
		}
	})
}

func TestParseResult_NodeText(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	result, err := p.Parse(context.Background(), []byte(testCSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer result.Close()

	typedefs := findNodes(result, "type_definition")
	if len(typedefs) == 0 {
		t.Fatal("no typedef found")
	}
	text := result.NodeText(typedefs[0])
	if !strings.Contains(text, "point_t") {
		t.Errorf("expected typedef text to contain 'point_t', got %q", text)
	}
	if got := result.NodeText(nil); got != "" {
		t.Errorf("expected empty text for nil node, got %q", got)
	}
}

func TestParseResult_HasErrors(t *testing.T) {
	p, err := NewParser(C)
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer p.Close()

	t.Run("valid source has no errors", func(t *testing.T) {
		result, err := p.Parse(context.Background(), []byte(testCSource))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if result.HasErrors() {
			t.Error("expected no parse errors for valid source")
		}
	})

	t.Run("invalid source has errors", func(t *testing.T) {
		result, err := p.Parse(context.Background(), []byte("struct broken { int x;\nint f(;\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		defer result.Close()

		if !result.HasErrors() {
			t.Error("expected parse errors for invalid source")
		}
	})
}

func TestNodeKind(t *testing.T) {
	c := &unit{lang: C}
	cpp := &unit{lang: Cpp}

	tests := []struct {
		u        *unit
		nodeType string
		want     cursor.Kind
		ok       bool
	}{
		{c, "struct_specifier", cursor.KindStructDecl, true},
		{c, "type_definition", cursor.KindTypedefDecl, true},
		{c, "namespace_definition", cursor.KindInvalid, false},
		{c, "comment", cursor.KindInvalid, false},
		{cpp, "namespace_definition", cursor.KindNamespace, true},
		{cpp, "class_specifier", cursor.KindClassDecl, true},
		{cpp, "field_declaration", cursor.KindFieldDecl, true},
		{cpp, "access_specifier", cursor.KindInvalid, false},
	}
	for _, tt := range tests {
		got, ok := tt.u.nodeKind(tt.nodeType)
		if ok != tt.ok || got != tt.want {
			t.Errorf("nodeKind(%s, %q) = %s, %v; want %s, %v", tt.u.lang, tt.nodeType, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path string
		name string
		want Language
	}{
		{"api.h", "", C},
		{"api.c", "", C},
		{"api.hpp", "", Cpp},
		{"API.HH", "", Cpp},
		{"api.h", "c++", Cpp},
		{"api.hpp", "c", C},
		{"api.inc", "", C},
	}
	for _, tt := range tests {
		got, err := LanguageFor(tt.path, tt.name)
		if err != nil {
			t.Errorf("LanguageFor(%q, %q) failed: %v", tt.path, tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("LanguageFor(%q, %q) = %s, want %s", tt.path, tt.name, got, tt.want)
		}
	}

	if _, err := LanguageFor("api.h", "objc"); err == nil {
		t.Error("expected error for unsupported language name")
	}
}

func TestSupportedExtensions(t *testing.T) {
	for _, ext := range SupportedExtensions() {
		if LanguageFromExtension(ext) == "" {
			t.Errorf("extension %s has no language", ext)
		}
	}
}

func TestParseError(t *testing.T) {
	t.Run("formats with file", func(t *testing.T) {
		err := &ParseError{
			Message: "expected ';'",
			File:    "api.h",
			Line:    10,
			Column:  5,
		}
		expected := "api.h:10:5: expected ';'"
		if got := err.Error(); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
		if !errors.Is(err, cursor.ErrFatalParse) {
			t.Error("expected ParseError to wrap ErrFatalParse")
		}
	})

	t.Run("formats without file", func(t *testing.T) {
		err := &ParseError{
			Message: "expected ';'",
			Line:    10,
			Column:  5,
		}
		expected := "10:5: expected ';'"
		if got := err.Error(); got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	})
}

func TestUnsupportedLanguageError(t *testing.T) {
	err := &UnsupportedLanguageError{Language: "fortran"}
	expected := "unsupported language: fortran"
	if got := err.Error(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// findNodes returns every node of nodeType in result.
func findNodes(result *ParseResult, nodeType string) []*sitter.Node {
	var nodes []*sitter.Node
	result.WalkNodes(func(node *sitter.Node) bool {
		if node.Type() == nodeType {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}
