package sqlfrag

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo is a lazily-populated, two-level mapping retained for the
// process lifetime. It backs pure helper functions, so there is no
// eviction; unbounded growth is a deliberate trade-off.
//
// Values are published only after they are fully computed. Concurrent
// first readers of the same key are collapsed into a single computation
// by singleflight; a caller never observes a partially constructed
// entry.
type Memo[V any] struct {
	mu sync.RWMutex
	m  map[string]map[string]V
	sf singleflight.Group
}

// Get returns the memoized value for (group, key), computing and
// retaining it on first access.
func (m *Memo[V]) Get(group, key string, compute func() V) V {
	m.mu.RLock()
	if v, ok := m.m[group][key]; ok {
		m.mu.RUnlock()
		return v
	}
	m.mu.RUnlock()
	v, _, _ := m.sf.Do(group+"\x00"+key, func() (any, error) {
		// A previous flight may have published between our fast-path
		// miss and this one starting.
		m.mu.RLock()
		if v, ok := m.m[group][key]; ok {
			m.mu.RUnlock()
			return v, nil
		}
		m.mu.RUnlock()
		val := compute()
		m.mu.Lock()
		if m.m == nil {
			m.m = make(map[string]map[string]V)
		}
		inner := m.m[group]
		if inner == nil {
			inner = make(map[string]V)
			m.m[group] = inner
		}
		inner[key] = val
		m.mu.Unlock()
		return val, nil
	})
	return v.(V)
}

// Len reports the number of retained entries across all groups.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, inner := range m.m {
		n += len(inner)
	}
	return n
}
