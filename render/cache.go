package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/syssam/reportkit"
)

// Cache wraps render operations with the external cache store. Per
// invocation it performs exactly one store read and at most one store
// write. Store failures are never fatal: reads degrade to a miss and
// writes are best-effort, since the rendered output has already been
// produced either way.
type Cache struct {
	store  reportkit.Cache
	policy *reportkit.CachePolicy
	ttl    time.Duration
	log    *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the time-to-live passed to the store on writes.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger installs a logger for best-effort store failures. A nil
// logger keeps the cache silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// New returns a Cache over the given store. A nil policy caches every
// operation type.
func New(store reportkit.Cache, policy *reportkit.CachePolicy, opts ...Option) *Cache {
	c := &Cache{store: store, policy: policy}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render executes the render operation with caching. Behavior:
//
//  1. If the policy disables caching for opType, the render step runs
//     directly with no cache interaction.
//  2. Otherwise the fingerprint is computed and the store consulted.
//  3. On a hit, the stored text is written into the sink through the
//     same write path used by live rendering.
//  4. On a miss, the render step runs; afterwards the sink's captured
//     output (the mirror buffer, for streaming sinks) is stored.
//
// The full rendered text is returned in every case. Sinks are
// per-invocation; reusing one across calls leaks prior output into the
// stored artifact.
func (c *Cache) Render(ctx context.Context, locale, opType string, subject Subject, opts Options, sink Sink, r Renderer) (string, error) {
	out := &Output{sink: sink}
	if !c.shouldCache(opType) {
		return c.execute(out, opType, r)
	}
	fp := Fingerprint(locale, opType, subject, opts)
	stored, err := c.store.Fetch(ctx, fp)
	switch {
	case err == nil:
		out.Write(stored)
		return stored, nil
	case !reportkit.IsCacheMiss(err):
		c.warn("cache store fetch failed, treating as miss", fp, err)
	}
	text, err := c.execute(out, opType, r)
	if err != nil {
		return "", err
	}
	if werr := c.store.Write(ctx, fp, text, c.ttl); werr != nil {
		c.warn("cache store write failed, result not cached", fp, werr)
	}
	return text, nil
}

func (c *Cache) shouldCache(opType string) bool {
	return c.policy == nil || c.policy.ShouldCache(opType)
}

// execute runs the render step and enforces the at-least-one-write
// contract.
func (c *Cache) execute(out *Output, opType string, r Renderer) (string, error) {
	if err := r.Render(out); err != nil {
		return "", reportkit.NewRenderError(opType, err)
	}
	if !out.wrote {
		return "", reportkit.NewRenderError(opType, reportkit.ErrNoOutput)
	}
	return out.sink.Captured(), nil
}

func (c *Cache) warn(msg, fingerprint string, err error) {
	if c.log != nil {
		c.log.Warn(msg, "fingerprint", fingerprint, "err", err)
	}
}
