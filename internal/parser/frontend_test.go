package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrap/cwrap/internal/cursor"
)

func parseUnit(t *testing.T, path, src string, opts cursor.ParseOptions) *cursor.TranslationUnit {
	t.Helper()
	tu, err := NewFrontend(nil).Parse(context.Background(), path, []byte(src), opts)
	require.NoError(t, err)
	require.NotNil(t, tu.Root)
	return tu
}

// find returns the first cursor of kind named name, searching depth first.
func find(c cursor.Cursor, kind cursor.Kind, name string) cursor.Cursor {
	if c.Kind() == kind && c.Spelling() == name {
		return c
	}
	for _, child := range c.Children() {
		if found := find(child, kind, name); found != nil {
			return found
		}
	}
	return nil
}

func mustFind(t *testing.T, c cursor.Cursor, kind cursor.Kind, name string) cursor.Cursor {
	t.Helper()
	found := find(c, kind, name)
	require.NotNil(t, found, "no %s named %q", kind, name)
	return found
}

func TestFrontendTranslationUnit(t *testing.T) {
	tu := parseUnit(t, "point.h", testCSource, cursor.ParseOptions{})

	assert.Equal(t, cursor.KindTranslationUnit, tu.Root.Kind())
	assert.Equal(t, cursor.ID("c:point.h"), tu.Root.ID())
	assert.Equal(t, "point.h", tu.Root.DisplayName())
	assert.Empty(t, tu.Diagnostics)
	assert.Empty(t, tu.Defines, "defines are only collected with detailed preprocessing")

	var kinds []cursor.Kind
	for _, c := range tu.Root.Children() {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, []cursor.Kind{
		cursor.KindInclusionDirective,
		cursor.KindMacroDefinition,
		cursor.KindStructDecl,
		cursor.KindTypedefDecl,
		cursor.KindEnumDecl,
		cursor.KindFunctionDecl,
		cursor.KindFunctionDecl,
	}, kinds)
}

func TestFrontendRecord(t *testing.T) {
	tu := parseUnit(t, "point.h", testCSource, cursor.ParseOptions{})

	point := mustFind(t, tu.Root, cursor.KindStructDecl, "point")
	assert.Equal(t, cursor.ID("c:@S@point"), point.ID())
	assert.True(t, point.IsDefinition())
	assert.Equal(t, tu.Root.ID(), point.Parent())
	assert.Equal(t, 6, point.Location().Line)

	require.Len(t, point.Children(), 2)
	x := point.Children()[0]
	assert.Equal(t, cursor.KindFieldDecl, x.Kind())
	assert.Equal(t, cursor.ID("c:@S@point@FI@x"), x.ID())
	assert.Equal(t, point.ID(), x.Parent())
	assert.Equal(t, cursor.TypeInt, x.Type().Kind())
	assert.Equal(t, -1, x.BitWidth())

	td := mustFind(t, tu.Root, cursor.KindTypedefDecl, "point_t")
	assert.Equal(t, cursor.ID("c:@T@point_t"), td.ID())
	under := td.UnderlyingType()
	assert.Equal(t, cursor.TypeRecord, under.Kind())
	assert.Equal(t, "struct point", under.Spelling())
	require.NotNil(t, under.Declaration())
	assert.Equal(t, point.ID(), under.Declaration().ID())
}

func TestFrontendEnumValues(t *testing.T) {
	src := `enum flags {
	F_NONE,
	F_READ = 1 << 0,
	F_WRITE = 1 << 1,
	F_RW = F_READ | F_WRITE,
	F_NEXT,
	F_CHAR = 'a',
	F_NEG = -(2 + 3),
	F_HEX = 0x10u,
};
`
	tu := parseUnit(t, "flags.h", src, cursor.ParseOptions{})

	enum := mustFind(t, tu.Root, cursor.KindEnumDecl, "flags")
	assert.Equal(t, cursor.ID("c:@E@flags"), enum.ID())
	assert.Equal(t, cursor.TypeEnum, enum.Type().Kind())

	want := map[string]int64{
		"F_NONE":  0,
		"F_READ":  1,
		"F_WRITE": 2,
		"F_RW":    3,
		"F_NEXT":  4,
		"F_CHAR":  97,
		"F_NEG":   -5,
		"F_HEX":   16,
	}
	require.Len(t, enum.Children(), len(want))
	for _, c := range enum.Children() {
		assert.Equal(t, cursor.KindEnumConstantDecl, c.Kind())
		assert.Equal(t, want[c.Spelling()], c.EnumValue(), c.Spelling())
		assert.Equal(t, enum.ID(), c.Parent())
	}
	assert.Empty(t, tu.Diagnostics)
}

func TestFrontendFunctions(t *testing.T) {
	src := `int legacy();
int none(void);
int printf(const char *fmt, ...);
static inline int square(int v) { return v * v; }
extern void sort(int values[], int (*cmp)(const void *, const void *));
`
	tu := parseUnit(t, "fn.h", src, cursor.ParseOptions{})

	legacy := mustFind(t, tu.Root, cursor.KindFunctionDecl, "legacy")
	assert.Equal(t, cursor.ID("c:@F@legacy"), legacy.ID())
	assert.Equal(t, cursor.TypeFunctionNoProto, legacy.Type().Kind())
	assert.Empty(t, legacy.Arguments())
	assert.False(t, legacy.IsDefinition())

	none := mustFind(t, tu.Root, cursor.KindFunctionDecl, "none")
	assert.Equal(t, cursor.TypeFunctionProto, none.Type().Kind())
	assert.Empty(t, none.Arguments())
	assert.Equal(t, cursor.TypeInt, none.ResultType().Kind())

	printf := mustFind(t, tu.Root, cursor.KindFunctionDecl, "printf")
	assert.True(t, printf.IsVariadic())
	require.Len(t, printf.Arguments(), 1)
	fmtArg := printf.Arguments()[0]
	assert.Equal(t, cursor.KindParmDecl, fmtArg.Kind())
	assert.Equal(t, "fmt", fmtArg.Spelling())
	assert.Equal(t, cursor.TypePointer, fmtArg.Type().Kind())
	assert.True(t, fmtArg.Type().Pointee().IsConst())
	assert.Equal(t, cursor.TypeCharS, fmtArg.Type().Pointee().Kind())

	square := mustFind(t, tu.Root, cursor.KindFunctionDecl, "square")
	assert.True(t, square.IsDefinition())
	assert.True(t, square.IsInline())
	assert.Equal(t, "static", square.StorageClass())

	sort := mustFind(t, tu.Root, cursor.KindFunctionDecl, "sort")
	assert.Equal(t, "extern", sort.StorageClass())
	assert.Equal(t, cursor.TypeVoid, sort.ResultType().Kind())
	require.Len(t, sort.Arguments(), 2)
	values := sort.Arguments()[0].Type()
	assert.Equal(t, cursor.TypePointer, values.Kind(), "array parameters decay")
	cmp := sort.Arguments()[1].Type()
	require.Equal(t, cursor.TypePointer, cmp.Kind())
	proto := cmp.Pointee()
	assert.Equal(t, cursor.TypeFunctionProto, proto.Kind())
	assert.Len(t, proto.ArgTypes(), 2)
}

func TestFrontendVariables(t *testing.T) {
	src := `#define N 4
extern const int limit;
static int table[N * 2];
int grid[2][3];
extern char tail[];
int (*handler)(int) = 0;
volatile unsigned long long ticks;
`
	tu := parseUnit(t, "vars.h", src, cursor.ParseOptions{})

	limit := mustFind(t, tu.Root, cursor.KindVarDecl, "limit")
	assert.Equal(t, cursor.ID("c:@V@limit"), limit.ID())
	assert.Equal(t, "extern", limit.StorageClass())
	assert.True(t, limit.Type().IsConst())

	table := mustFind(t, tu.Root, cursor.KindVarDecl, "table")
	assert.Equal(t, cursor.TypeIncompleteArray, table.Type().Kind(), "macro sizes cannot be evaluated")

	grid := mustFind(t, tu.Root, cursor.KindVarDecl, "grid")
	require.Equal(t, cursor.TypeConstantArray, grid.Type().Kind())
	assert.Equal(t, int64(2), grid.Type().ElementCount())
	assert.Equal(t, int64(3), grid.Type().Element().ElementCount())

	tail := mustFind(t, tu.Root, cursor.KindVarDecl, "tail")
	assert.Equal(t, cursor.TypeIncompleteArray, tail.Type().Kind())

	handler := mustFind(t, tu.Root, cursor.KindVarDecl, "handler")
	require.Equal(t, cursor.TypePointer, handler.Type().Kind())
	assert.Equal(t, cursor.TypeFunctionProto, handler.Type().Pointee().Kind())
	assert.Equal(t, "0", handler.Initializer())

	ticks := mustFind(t, tu.Root, cursor.KindVarDecl, "ticks")
	assert.True(t, ticks.Type().IsVolatile())
	assert.Equal(t, cursor.TypeULongLong, ticks.Type().Kind())

	require.NotEmpty(t, tu.Diagnostics)
	assert.Equal(t, cursor.SeverityWarning, tu.Diagnostics[0].Severity)
}

func TestFrontendBitfieldsAndAnonymous(t *testing.T) {
	src := `typedef struct {
	unsigned ready : 1;
	unsigned mode : 3;
	union {
		int i;
		float f;
	};
} status_t;
`
	tu := parseUnit(t, "status.h", src, cursor.ParseOptions{})

	require.Len(t, tu.Root.Children(), 2)
	anon := tu.Root.Children()[0]
	assert.Equal(t, cursor.KindStructDecl, anon.Kind())
	assert.Empty(t, anon.Spelling())

	td := tu.Root.Children()[1]
	assert.Equal(t, cursor.KindTypedefDecl, td.Kind())
	require.NotNil(t, td.UnderlyingType().Declaration())
	assert.Equal(t, anon.ID(), td.UnderlyingType().Declaration().ID())

	ready := mustFind(t, anon, cursor.KindFieldDecl, "ready")
	assert.Equal(t, 1, ready.BitWidth())
	assert.Equal(t, cursor.TypeUInt, ready.Type().Kind())
	assert.Equal(t, 3, mustFind(t, anon, cursor.KindFieldDecl, "mode").BitWidth())

	inner := mustFind(t, anon, cursor.KindUnionDecl, "")
	assert.Equal(t, anon.ID(), inner.Parent())
	field := mustFind(t, anon, cursor.KindFieldDecl, "")
	assert.Equal(t, inner.ID(), field.Type().Declaration().ID())
}

func TestFrontendForwardReferences(t *testing.T) {
	src := `struct list;
typedef struct list list_t;
struct list {
	struct list *next;
	list_t *prev;
	enum state s;
};
enum state { IDLE, BUSY };
struct list;
`
	tu := parseUnit(t, "list.h", src, cursor.ParseOptions{})

	var def cursor.Cursor
	for _, c := range tu.Root.Children() {
		if c.Kind() == cursor.KindStructDecl && c.IsDefinition() {
			def = c
		}
	}
	require.NotNil(t, def)

	fwd := tu.Root.Children()[0]
	assert.Equal(t, cursor.KindStructDecl, fwd.Kind())
	assert.False(t, fwd.IsDefinition())
	assert.Equal(t, def.ID(), fwd.ID(), "declarations share the identity of the definition")

	td := mustFind(t, tu.Root, cursor.KindTypedefDecl, "list_t")
	assert.Same(t, def, td.UnderlyingType().Declaration(), "a later definition wins over the forward declaration")

	next := mustFind(t, def, cursor.KindFieldDecl, "next")
	assert.Same(t, def, next.Type().Pointee().Declaration())

	prev := mustFind(t, def, cursor.KindFieldDecl, "prev")
	assert.Equal(t, cursor.TypeTypedef, prev.Type().Pointee().Kind())
	assert.Equal(t, "struct list", prev.Type().Pointee().Canonical().Spelling())

	s := mustFind(t, def, cursor.KindFieldDecl, "s")
	assert.Equal(t, cursor.TypeEnum, s.Type().Kind())
	assert.Equal(t, cursor.ID("c:@E@state"), s.Type().Declaration().ID())
}

func TestFrontendParameterForwardReferences(t *testing.T) {
	src := `enum mode get(void);
void set(enum mode m);
void draw(struct pt p, enum mode);
enum mode { A, B };
struct pt { int x; };
`
	tu := parseUnit(t, "mode.h", src, cursor.ParseOptions{})

	mode := cursor.ID("c:@E@mode")
	get := mustFind(t, tu.Root, cursor.KindFunctionDecl, "get")
	require.NotNil(t, get.ResultType().Declaration())
	assert.Equal(t, mode, get.ResultType().Declaration().ID())

	set := mustFind(t, tu.Root, cursor.KindFunctionDecl, "set")
	require.Len(t, set.Arguments(), 1)
	m := set.Arguments()[0].Type()
	assert.Equal(t, cursor.TypeEnum, m.Kind())
	require.NotNil(t, m.Declaration())
	assert.Equal(t, mode, m.Declaration().ID())
	assert.True(t, m.Declaration().IsDefinition(), "parameters bind to the later definition")

	draw := mustFind(t, tu.Root, cursor.KindFunctionDecl, "draw")
	require.Len(t, draw.Arguments(), 2)
	p := draw.Arguments()[0].Type()
	require.NotNil(t, p.Declaration())
	assert.Equal(t, cursor.ID("c:@S@pt"), p.Declaration().ID())
	assert.True(t, p.Declaration().IsDefinition())
	require.NotNil(t, draw.Arguments()[1].Type().Declaration())
	assert.Equal(t, mode, draw.Arguments()[1].Type().Declaration().ID())
}

func TestFrontendImplicitTags(t *testing.T) {
	src := `typedef struct Foo Foo;
void use(Foo *f);
void close_handle(struct handle *h);
struct list { struct node *head; };
`
	tu := parseUnit(t, "handle.h", src, cursor.ParseOptions{})

	children := tu.Root.Children()
	require.GreaterOrEqual(t, len(children), 2)
	foo := children[0]
	assert.Equal(t, cursor.KindStructDecl, foo.Kind())
	assert.Equal(t, "Foo", foo.Spelling())
	assert.False(t, foo.IsDefinition())

	td := children[1]
	assert.Equal(t, cursor.KindTypedefDecl, td.Kind())
	require.NotNil(t, td.UnderlyingType().Declaration())
	assert.Equal(t, foo.ID(), td.UnderlyingType().Declaration().ID())

	closer := mustFind(t, tu.Root, cursor.KindFunctionDecl, "close_handle")
	require.Len(t, closer.Arguments(), 1)
	h := closer.Arguments()[0].Type()
	assert.Equal(t, cursor.TypePointer, h.Kind())
	handle := h.Pointee().Declaration()
	require.NotNil(t, handle, "an elaborated parameter type declares its tag")
	assert.Equal(t, cursor.ID("c:@S@handle"), handle.ID())
	assert.Equal(t, tu.Root.ID(), handle.Parent())

	list := mustFind(t, tu.Root, cursor.KindStructDecl, "list")
	assert.Nil(t, find(list, cursor.KindStructDecl, "node"), "tags named in a record are not members")
	head := mustFind(t, list, cursor.KindFieldDecl, "head")
	node := head.Type().Pointee().Declaration()
	require.NotNil(t, node)
	assert.Equal(t, tu.Root.ID(), node.Parent(), "C tags belong to the file")
}

func TestFrontendReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "point.h")
	require.NoError(t, os.WriteFile(path, []byte(testCSource), 0o644))

	tu, err := NewFrontend(nil).Parse(context.Background(), path, nil, cursor.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, cursor.ID("c:"+path), tu.Root.ID())
	mustFind(t, tu.Root, cursor.KindStructDecl, "point")

	_, err = NewFrontend(nil).Parse(context.Background(), filepath.Join(t.TempDir(), "missing.h"), nil, cursor.ParseOptions{})
	var readErr *FileReadError
	require.ErrorAs(t, err, &readErr)
	assert.True(t, errors.Is(err, cursor.ErrFatalParse))
}

func TestFrontendDefines(t *testing.T) {
	src := `#define VERSION 3
#define EMPTY
#define MAX(a, b) \
	((a) > (b) ? (a) : (b))
#ifdef FEATURE
#define FEATURE_ON 1
int feature(void);
#endif
`
	tu := parseUnit(t, "defs.h", src, cursor.ParseOptions{DetailedPreprocessing: true})

	assert.Equal(t, "VERSION 3\nEMPTY\nMAX(a, b) ((a) > (b) ? (a) : (b))\nFEATURE_ON 1", tu.Defines)
	mustFind(t, tu.Root, cursor.KindMacroDefinition, "MAX")
	mustFind(t, tu.Root, cursor.KindFunctionDecl, "feature")
}

func TestFrontendDiagnostics(t *testing.T) {
	src := "struct ok { int a; };\nint broken(;\n"

	t.Run("fatal without incomplete", func(t *testing.T) {
		_, err := NewFrontend(nil).Parse(context.Background(), "bad.h", []byte(src), cursor.ParseOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, cursor.ErrFatalParse))
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "bad.h", pe.File)
		assert.Equal(t, 2, pe.Line)
	})

	t.Run("surfaced with incomplete", func(t *testing.T) {
		tu := parseUnit(t, "bad.h", src, cursor.ParseOptions{Incomplete: true})
		require.NotEmpty(t, tu.Diagnostics)
		for _, d := range tu.Diagnostics {
			assert.Equal(t, cursor.SeverityError, d.Severity)
			assert.Equal(t, "Parse Issue", d.Category)
			assert.Equal(t, "bad.h", d.Location.File)
		}
		mustFind(t, tu.Root, cursor.KindStructDecl, "ok")
	})

	t.Run("unsupported language", func(t *testing.T) {
		_, err := NewFrontend(nil).Parse(context.Background(), "x.h", []byte(""), cursor.ParseOptions{Language: "objc"})
		assert.True(t, errors.Is(err, cursor.ErrFatalParse))
	})
}

func TestFrontendCpp(t *testing.T) {
	src := `namespace geo {
class Shape {
public:
	Shape(int sides);
	~Shape();
	virtual double area() const;
	int sides;
};
struct Square : public Shape {
	double area() const;
};
using Sides = int;
}

extern "C" {
int c_api(void);
}

template <typename T> T identity(T v);
`
	tu := parseUnit(t, "geo.hpp", src, cursor.ParseOptions{})

	ns := mustFind(t, tu.Root, cursor.KindNamespace, "geo")
	assert.Equal(t, cursor.ID("c:@N@geo"), ns.ID())

	shape := mustFind(t, ns, cursor.KindClassDecl, "Shape")
	assert.Equal(t, cursor.ID("c:@N@geo@S@Shape"), shape.ID())
	assert.Equal(t, ns.ID(), shape.Parent())

	ctor := mustFind(t, shape, cursor.KindConstructor, "Shape")
	require.Len(t, ctor.Arguments(), 1)
	mustFind(t, shape, cursor.KindDestructor, "~Shape")
	area := mustFind(t, shape, cursor.KindMethod, "area")
	assert.Equal(t, cursor.TypeDouble, area.ResultType().Kind())
	mustFind(t, shape, cursor.KindFieldDecl, "sides")

	square := mustFind(t, ns, cursor.KindStructDecl, "Square")
	base := mustFind(t, square, cursor.KindBaseSpecifier, "Shape")
	require.NotNil(t, base.Type().Declaration())
	assert.Equal(t, shape.ID(), base.Type().Declaration().ID())

	alias := mustFind(t, ns, cursor.KindTypedefDecl, "Sides")
	assert.Equal(t, cursor.TypeInt, alias.UnderlyingType().Kind())

	ls := mustFind(t, tu.Root, cursor.KindLinkageSpec, "")
	api := mustFind(t, ls, cursor.KindFunctionDecl, "c_api")
	assert.Equal(t, tu.Root.ID(), api.Parent(), "linkage blocks are transparent")

	mustFind(t, tu.Root, cursor.KindTemplate, "")
}
