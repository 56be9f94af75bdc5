package render_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/reportkit"
	"github.com/syssam/reportkit/render"
)

// countingStore wraps a store and counts operations; it can also be
// forced to fail.
type countingStore struct {
	inner    reportkit.Cache
	fetches  int
	writes   int
	fetchErr error
	writeErr error
}

func (s *countingStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, key)
}

func (s *countingStore) Fetch(ctx context.Context, key string) (string, error) {
	s.fetches++
	if s.fetchErr != nil {
		return "", s.fetchErr
	}
	return s.inner.Fetch(ctx, key)
}

func (s *countingStore) Write(ctx context.Context, key, value string, ttl time.Duration) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.inner.Write(ctx, key, value, ttl)
}

// tableRenderer writes a fixed sequence of fragments and counts how
// often its side-effecting body ran.
type tableRenderer struct {
	fragments []string
	calls     int
}

func (r *tableRenderer) Render(out *render.Output) error {
	r.calls++
	for _, f := range r.fragments {
		out.Write(f)
	}
	return nil
}

// TestCacheTransparency tests that a second render of the same inputs
// yields byte-identical output while the render body runs at most once
// across the two calls.
func TestCacheTransparency(t *testing.T) {
	t.Parallel()

	store := &countingStore{inner: render.NewMemStore()}
	cache := render.New(store, nil)
	subject := reportQuery{id: "q-1", name: "spent time"}
	r := &tableRenderer{fragments: []string{"<table>", "<tr/>", "</table>"}}

	first, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), r)
	require.NoError(t, err)
	assert.Equal(t, "<table><tr/></table>", first)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 1, store.fetches)
	assert.Equal(t, 1, store.writes)

	second, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), r)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.calls, "render body must not run on a hit")
	assert.Equal(t, 2, store.fetches)
	assert.Equal(t, 1, store.writes, "at most one store write per invocation")
}

// TestCacheHitWritesThroughSink tests that a hit is indistinguishable
// from a live render downstream: the stored text flows through the
// same write path into the caller's sink.
func TestCacheHitWritesThroughSink(t *testing.T) {
	t.Parallel()

	cache := render.New(render.NewMemStore(), nil)
	subject := reportQuery{id: "q-2", name: "spent time"}
	r := &tableRenderer{fragments: []string{"a", "b"}}

	_, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), r)
	require.NoError(t, err)

	sink := render.NewBufferSink()
	out, err := cache.Render(context.Background(), "en", "report", subject, nil, sink, r)
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
	assert.Equal(t, "ab", sink.Captured())
}

// TestCacheStreamingMirror tests the streaming-sink path: the mirror
// copy is what gets stored, and a later hit replays it into a fresh
// destination.
func TestCacheStreamingMirror(t *testing.T) {
	t.Parallel()

	cache := render.New(render.NewMemStore(), nil)
	subject := reportQuery{id: "q-3", name: "gantt"}
	r := &tableRenderer{fragments: []string{"<svg>", "<rect/>", "</svg>"}}

	var live strings.Builder
	first, err := cache.Render(context.Background(), "en", "gantt", subject, nil,
		render.NewStreamSink(&live), r)
	require.NoError(t, err)
	assert.Equal(t, "<svg><rect/></svg>", first)
	assert.Equal(t, first, live.String())

	var replay strings.Builder
	second, err := cache.Render(context.Background(), "en", "gantt", subject, nil,
		render.NewStreamSink(&replay), r)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first, replay.String())
	assert.Equal(t, 1, r.calls)
}

// TestCachePolicyDisabled tests that disabled operation types render
// directly with no cache interaction.
func TestCachePolicyDisabled(t *testing.T) {
	t.Parallel()

	store := &countingStore{inner: render.NewMemStore()}
	policy := reportkit.NewCachePolicy(reportkit.CacheConfig{Disabled: []string{"gantt"}})
	cache := render.New(store, policy)
	subject := reportQuery{id: "q-4", name: "gantt"}
	r := &tableRenderer{fragments: []string{"x"}}

	for i := 0; i < 2; i++ {
		out, err := cache.Render(context.Background(), "en", "gantt", subject, nil,
			render.NewBufferSink(), r)
		require.NoError(t, err)
		assert.Equal(t, "x", out)
	}
	assert.Equal(t, 2, r.calls)
	assert.Zero(t, store.fetches)
	assert.Zero(t, store.writes)
}

// TestCacheStoreFailures tests the degradation policy: fetch failures
// act as misses, write failures are best-effort.
func TestCacheStoreFailures(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	store := &countingStore{
		inner:    render.NewMemStore(),
		fetchErr: errors.New("connection refused"),
		writeErr: errors.New("connection refused"),
	}
	cache := render.New(store, nil, render.WithLogger(logger))
	subject := reportQuery{id: "q-5", name: "spent time"}
	r := &tableRenderer{fragments: []string{"ok"}}

	out, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), r)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 1, store.writes, "write attempted despite fetch failure")
}

// TestCacheNoOutput tests that a render step which never writes is
// surfaced as a programming error, and nothing is cached.
func TestCacheNoOutput(t *testing.T) {
	t.Parallel()

	store := &countingStore{inner: render.NewMemStore()}
	cache := render.New(store, nil)
	subject := reportQuery{id: "q-6", name: "empty"}

	_, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), render.RenderFunc(func(*render.Output) error { return nil }))
	require.Error(t, err)
	assert.True(t, reportkit.IsRenderError(err))
	assert.ErrorIs(t, err, reportkit.ErrNoOutput)
	assert.Zero(t, store.writes)
}

// TestCacheRenderErrorPropagates tests that render failures are wrapped
// and nothing is cached.
func TestCacheRenderErrorPropagates(t *testing.T) {
	t.Parallel()

	store := &countingStore{inner: render.NewMemStore()}
	cache := render.New(store, nil)
	subject := reportQuery{id: "q-7", name: "boom"}
	boom := errors.New("boom")

	_, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), render.RenderFunc(func(*render.Output) error { return boom }))
	require.Error(t, err)
	assert.True(t, reportkit.IsRenderError(err))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.writes)
}

// TestCacheAbstractOperation tests that the unspecialized base
// operation fails loudly instead of caching empty output.
func TestCacheAbstractOperation(t *testing.T) {
	t.Parallel()

	cache := render.New(render.NewMemStore(), nil)
	subject := reportQuery{id: "q-8", name: "abstract"}

	_, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), render.Unimplemented{})
	require.Error(t, err)
	assert.ErrorIs(t, err, reportkit.ErrNotImplemented)
}

// TestCacheTTL tests that the configured TTL reaches the store.
func TestCacheTTL(t *testing.T) {
	t.Parallel()

	mem := render.NewMemStore()
	cache := render.New(mem, nil, render.WithTTL(time.Nanosecond))
	subject := reportQuery{id: "q-9", name: "ttl"}
	r := &tableRenderer{fragments: []string{"x"}}

	_, err := cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), r)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = cache.Render(context.Background(), "en", "report", subject, nil,
		render.NewBufferSink(), r)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls, "expired entry must not hit")
}
