// Package reportkit is the support layer for reporting queries.
//
// It provides two independent mechanisms used by report rendering code:
//
//   - A render-result cache that transparently replaces an expensive,
//     side-effecting render step with a previously stored artifact,
//     including the case where rendering streams output incrementally
//     instead of building a single buffer. See the render sub-package.
//
//   - A SQL-dialect abstraction that lets identical query-building code
//     produce correct fragments for multiple database engines (value
//     quoting, typed literals, ISO year-week bucketing, nil-aware
//     ordering). See the dialect and dialect/sqlfrag sub-packages.
//
// # Cache Store Contract
//
// The render cache persists artifacts through the Cache interface, an
// external key/value store reachable via exists/fetch/write operations:
//
//	type Cache interface {
//	    Exists(ctx context.Context, key string) (bool, error)
//	    Fetch(ctx context.Context, key string) (string, error)
//	    Write(ctx context.Context, key, value string, ttl time.Duration) error
//	}
//
// No TTL or eviction policy is mandated here; that is the store's
// concern. The render sub-package ships an in-memory implementation and
// a msgpack envelope adapter for byte-oriented stores.
//
// # Cache Policy
//
// Whether an operation type is cached at all is decided by a CachePolicy
// built from configuration at startup:
//
//	cfg, err := reportkit.LoadConfig("reportkit.yml")
//	policy := reportkit.NewCachePolicy(cfg.Cache)
//
// Disabling caching for an operation type is irreversible for the
// process lifetime; there is no re-enable operation.
//
// # Sub-packages
//
//   - dialect: dialect detection, typed literals, ISO year-week
//     expressions, and the capability registry
//   - dialect/sqlfrag: stateless SQL fragment builders
//   - render: the render-result cache and output sinks
package reportkit
