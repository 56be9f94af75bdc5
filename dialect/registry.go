package dialect

import "sync"

// DialectAware is implemented by query-utility groups that consume the
// active dialect. Groups register themselves once (typically from an
// init function or constructor) and receive the dialect through
// UseDialect whenever one is bound.
type DialectAware interface {
	UseDialect(d Dialect)
}

var registry = struct {
	sync.Mutex
	groups []DialectAware
	active Dialect
}{}

// Register adds a utility group to the registry. If a dialect has
// already been bound, the group receives it immediately, so a single
// Bind call is sufficient regardless of how many groups exist in the
// process and regardless of registration order.
func Register(g DialectAware) {
	registry.Lock()
	defer registry.Unlock()
	registry.groups = append(registry.groups, g)
	if registry.active != nil {
		g.UseDialect(registry.active)
	}
}

// Bind installs d as the active dialect and injects it into every
// registered group, including groups registered before the bind.
// Dialect selection is expected to happen once at startup or
// connection-bind time and be treated as immutable thereafter.
func Bind(d Dialect) {
	registry.Lock()
	defer registry.Unlock()
	registry.active = d
	for _, g := range registry.groups {
		g.UseDialect(d)
	}
}

// BindEngine detects the dialect for the given engine name and binds it.
func BindEngine(engine string) Dialect {
	d := Detect(engine)
	Bind(d)
	return d
}

// Active returns the currently bound dialect, or the generic dialect if
// none has been bound yet.
func Active() Dialect {
	registry.Lock()
	defer registry.Unlock()
	if registry.active == nil {
		return genericDialect{}
	}
	return registry.active
}
