package reportkit

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level reportkit configuration. It is loaded once at
// startup; none of it is reloaded at runtime.
type Config struct {
	Cache CacheConfig `yaml:"cache"`
}

// Duration is a time.Duration that additionally unmarshals from YAML
// strings like "5m" or "1h30m". Plain integers are nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler. The node tag decides the
// form: integer scalars would otherwise decode into a string and lose
// the nanosecond interpretation.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("reportkit: invalid duration %q: %w", value.Value, err)
		}
		*d = Duration(n)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("reportkit: invalid duration %q: %w", value.Value, err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("reportkit: invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// CacheConfig configures the render cache policy.
type CacheConfig struct {
	// DisableAll turns render caching off for every operation type.
	DisableAll bool `yaml:"disable_all"`

	// Disabled lists operation types whose rendering is never cached.
	Disabled []string `yaml:"disabled"`

	// DefaultTTL is the time-to-live passed to the cache store on
	// writes. Zero means entries do not expire.
	DefaultTTL Duration `yaml:"default_ttl"`
}

// ParseConfig decodes a YAML configuration document.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("reportkit: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reportkit: load config: %w", err)
	}
	return ParseConfig(data)
}

// CachePolicy decides whether rendering output for a given operation
// type may be cached. It replaces a process-wide mutable toggle with an
// explicit value threaded through construction.
//
// Disabling is irreversible for the lifetime of the policy: once an
// operation type (or everything) has been disabled, there is no
// re-enable operation.
type CachePolicy struct {
	mu         sync.RWMutex
	disableAll bool
	disabled   map[string]struct{}
}

// NewCachePolicy builds a policy from configuration.
func NewCachePolicy(cfg CacheConfig) *CachePolicy {
	p := &CachePolicy{disabled: make(map[string]struct{}, len(cfg.Disabled))}
	p.disableAll = cfg.DisableAll
	for _, op := range cfg.Disabled {
		p.disabled[op] = struct{}{}
	}
	return p
}

// ShouldCache reports whether output for the operation type may be
// cached. It returns false if caching has been disabled for that type
// or globally for all types.
func (p *CachePolicy) ShouldCache(opType string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.disableAll {
		return false
	}
	_, off := p.disabled[opType]
	return !off
}

// Disable turns caching off for the given operation type.
func (p *CachePolicy) Disable(opType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled[opType] = struct{}{}
}

// DisableAll turns caching off for every operation type.
func (p *CachePolicy) DisableAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disableAll = true
}
