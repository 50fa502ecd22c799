package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwrap/cwrap/internal/cache"
	"github.com/cwrap/cwrap/internal/cursor"
	"github.com/cwrap/cwrap/internal/output"
)

const queueHeader = `#define QUEUE_MAX 64
#define PUSH(q, v) queue_push((q), (v))
struct queue { int items[64]; int len; };
int queue_push(struct queue *q, int v);
`

func writeHeader(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func newRenderer(t *testing.T, withCache bool) *Renderer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var c *cache.Cache
	if withCache {
		var err error
		c, err = cache.Open(filepath.Join(t.TempDir(), "cache.db"))
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
	}
	return New(cursor.ParseOptions{DetailedPreprocessing: true}, 0, c, log)
}

func TestRender(t *testing.T) {
	path := writeHeader(t, "queue.h", queueHeader)
	r := newRenderer(t, false)

	out, err := r.Render(context.Background(), Request{Path: path})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Contains(t, out.Text, "name: queue_push")
	assert.Contains(t, out.Text, "QUEUE_MAX")

	out, err = r.Render(context.Background(), Request{Path: path, Format: output.FormatJSON, MacrosOnly: true})
	require.NoError(t, err)
	assert.Contains(t, out.Text, `"name": "PUSH"`)
	assert.NotContains(t, out.Text, "declarations")
}

func TestRenderCache(t *testing.T) {
	path := writeHeader(t, "queue.h", queueHeader)
	r := newRenderer(t, true)
	ctx := context.Background()

	first, err := r.Render(ctx, Request{Path: path, Density: output.DensitySparse})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := r.Render(ctx, Request{Path: path, Density: output.DensitySparse})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)

	dense, err := r.Render(ctx, Request{Path: path, Density: output.DensityDense})
	require.NoError(t, err)
	assert.False(t, dense.Cached, "other density is a different entry")

	require.NoError(t, os.WriteFile(path, []byte(queueHeader+"int queue_len(const struct queue *q);\n"), 0o644))
	changed, err := r.Render(ctx, Request{Path: path, Density: output.DensitySparse})
	require.NoError(t, err)
	assert.False(t, changed.Cached)
	assert.Contains(t, changed.Text, "queue_len")
}

func TestRenderErrors(t *testing.T) {
	r := newRenderer(t, false)
	ctx := context.Background()

	_, err := r.Render(ctx, Request{})
	assert.ErrorIs(t, err, ErrNoPath)

	_, err = r.Render(ctx, Request{Path: filepath.Join(t.TempDir(), "missing.h")})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, cursor.ErrFatalParse)

	path := writeHeader(t, "bad.h", "int broken(;\n")
	_, err = r.Render(ctx, Request{Path: path})
	assert.True(t, errors.Is(err, cursor.ErrFatalParse), "got %v", err)

	_, err = r.Render(ctx, Request{Path: path, Format: output.Format("xml")})
	assert.Error(t, err)
}
