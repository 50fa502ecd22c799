package output

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrap/cwrap/internal/cursor"
	"github.com/cwrap/cwrap/internal/extract"
	"github.com/cwrap/cwrap/internal/parser"
)

const paintHeader = `#define PAINT_API 1
#define active current_brush
#define CLAMP(v) ((v) < 0 ? 0 : (v))

typedef struct { int r, g, b; } rgb;
struct brush {
	rgb color;
	unsigned width : 4;
	struct brush *next;
	const char *name;
};
struct brush *current_brush(void);
int paint(struct brush *b, int (*cb)(int), ...);
`

func extractPaint(t *testing.T) *extract.Result {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := extract.Extract(context.Background(), parser.NewFrontend(log), "paint.h", []byte(paintHeader),
		cursor.ParseOptions{DetailedPreprocessing: true}, extract.WithLogger(log))
	require.NoError(t, err)
	return res
}

func declByName(t *testing.T, doc *Document, name string) *Declaration {
	t.Helper()
	for _, d := range doc.Declarations {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no declaration %q", name)
	return nil
}

func TestNewDocumentSparse(t *testing.T) {
	doc := NewDocument(extractPaint(t), DensitySparse)

	assert.Equal(t, "paint.h", doc.File)
	var names []string
	for _, d := range doc.Declarations {
		names = append(names, d.Name)
		assert.Nil(t, d.Type)
		assert.Empty(t, d.Members)
	}
	assert.Equal(t, []string{"rgb", "brush", "current_brush", "paint"}, names)
	assert.Empty(t, doc.Aliases)
	assert.Empty(t, doc.Macros)

	require.NotNil(t, doc.Summary)
	assert.Equal(t, 4, doc.Summary.Declarations)
	assert.Equal(t, 2, doc.Summary.Aliases)
	assert.Equal(t, 1, doc.Summary.Macros)
	assert.Equal(t, 2, doc.Summary.ByKind["Function"])
}

func TestNewDocumentMedium(t *testing.T) {
	doc := NewDocument(extractPaint(t), DensityMedium)

	brush := declByName(t, doc, "brush")
	assert.Equal(t, "Struct", brush.Kind)
	assert.Equal(t, "paint.h:6", brush.Location)
	assert.Zero(t, brush.Context)
	assert.Nil(t, brush.Size)
	require.Len(t, brush.Members, 4)

	color := brush.Members[0]
	assert.Equal(t, "color", color.Name)
	require.NotNil(t, color.Type)
	assert.Equal(t, "fundamental", color.Type.Kind)
	assert.Equal(t, "rgb", color.Type.Name)
	assert.Equal(t, declByName(t, doc, "rgb").ID, color.Type.Ref)

	width := brush.Members[1]
	require.NotNil(t, width.Bits)
	assert.Equal(t, 4, *width.Bits)

	next := brush.Members[2].Type
	assert.Equal(t, "pointer", next.Kind)
	require.NotNil(t, next.Of)
	assert.Equal(t, brush.ID, next.Of.Ref)

	name := brush.Members[3].Type
	assert.Equal(t, "pointer", name.Kind)
	require.NotNil(t, name.Of)
	assert.Equal(t, "cv", name.Of.Kind)
	assert.True(t, name.Of.Const)
	assert.Equal(t, "char", name.Of.Of.Name)

	paint := declByName(t, doc, "paint")
	assert.True(t, paint.Variadic)
	require.Len(t, paint.Arguments, 2)
	assert.Equal(t, "b", paint.Arguments[0].Name)
	cb := paint.Arguments[1].Type
	assert.Equal(t, "pointer", cb.Kind)
	require.NotNil(t, cb.Of)
	assert.Equal(t, "function", cb.Of.Kind)
	assert.Equal(t, "int", cb.Of.Returns.Name)
	require.Len(t, cb.Of.Args, 1)

	require.Len(t, doc.Aliases, 2)
	assert.Equal(t, "active", doc.Aliases[1].Name)
	assert.Equal(t, declByName(t, doc, "current_brush").ID, doc.Aliases[1].Target)
	require.Len(t, doc.Macros, 1)
	assert.Equal(t, "(v)", doc.Macros[0].Args)
	assert.Empty(t, doc.Unresolved)
}

func TestNewDocumentDense(t *testing.T) {
	doc := NewDocument(extractPaint(t), DensityDense)

	var elided *Declaration
	for _, d := range doc.Declarations {
		if d.Elided {
			elided = d
		}
	}
	require.NotNil(t, elided, "dense output lists the record behind rgb")
	assert.True(t, elided.Anonymous)
	assert.Len(t, elided.Members, 3)
	assert.Equal(t, 5, doc.Summary.Declarations)

	rgb := declByName(t, doc, "rgb")
	require.NotNil(t, rgb.Type)
	assert.Equal(t, elided.ID, rgb.Type.Ref)
}

func TestNewDocumentDiagnostics(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := extract.Extract(context.Background(), parser.NewFrontend(log), "bad.h",
		[]byte("struct ok { int a; };\nint broken(;\n"),
		cursor.ParseOptions{Incomplete: true}, extract.WithLogger(log))
	require.NoError(t, err)

	doc := NewDocument(res, DensityMedium)
	require.NotEmpty(t, doc.Diagnostics)
	var locations []string
	for _, d := range doc.Diagnostics {
		locations = append(locations, d.Location)
	}
	assert.Contains(t, locations, "bad.h:2")
	assert.Equal(t, len(res.Diagnostics), doc.Summary.Diagnostics)

	sparse := NewDocument(res, DensitySparse)
	assert.Empty(t, sparse.Diagnostics)
}

func TestNewMacrosDocument(t *testing.T) {
	doc := NewMacrosDocument(extractPaint(t))

	assert.Equal(t, "paint.h", doc.File)
	require.Len(t, doc.Aliases, 2)
	assert.Equal(t, "PAINT_API", doc.Aliases[0].Name)
	assert.Equal(t, "1", doc.Aliases[0].Value)
	assert.Zero(t, doc.Aliases[0].Target)
	require.Len(t, doc.Macros, 1)
	assert.Equal(t, "CLAMP", doc.Macros[0].Name)
	assert.Equal(t, "((v) < 0 ? 0 : (v))", doc.Macros[0].Body)
}
