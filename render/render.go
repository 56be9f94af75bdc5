package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/reportkit"
)

// Subject is the object being rendered (e.g., a report query). The
// cache treats it as opaque except for its textual form and, when
// implemented, its stable identity token. Subjects are owned by the
// caller and never mutated here.
type Subject interface {
	fmt.Stringer
}

// Keyed is implemented by subjects that expose a stable identity token;
// subjects without one are fingerprinted by their textual form instead.
type Keyed interface {
	CacheKey() string
}

// Options is the unordered per-call option mapping. Fingerprinting is
// order-independent: entries are canonicalized by sorting their string
// forms before hashing.
type Options map[string]any

// canonical returns the sorted, joined string form of the options.
func (o Options) canonical() string {
	pairs := make([]string, 0, len(o))
	for k, v := range o {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// Fingerprint computes the cache lookup key for a render call. It is
// deterministic: equal (locale, operation type, subject identity,
// options) always yield the same fingerprint, regardless of option
// iteration order. Fingerprints are opaque keys, never parsed.
func Fingerprint(locale, opType string, subject Subject, opts Options) string {
	var input string
	if k, ok := subject.(Keyed); ok {
		input = fmt.Sprintf("%s/%s/%s/%s", locale, opType, k.CacheKey(), opts.canonical())
	} else {
		input = subject.String()
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// Output is handed to the render step; writing fragments through it is
// the step's only output obligation. Every fragment reaches the sink
// through the same path whether it comes from live rendering or from a
// cache hit, so downstream consumers cannot tell the two apart.
type Output struct {
	sink  Sink
	wrote bool
}

// Write appends fragment to the output sink. Fragments are taken as
// pre-sanitized; no further escaping is applied. An empty fragment is
// concatenated as-is and never fails, but still counts as a write.
func (o *Output) Write(fragment string) {
	o.wrote = true
	o.sink.WriteString(fragment)
}

// Renderer is the render step collaborator: a side-effecting operation
// that must call Output.Write at least once. Returning without writing
// is an implementation fault, not a recoverable error.
type Renderer interface {
	Render(out *Output) error
}

// RenderFunc is a function adapter for Renderer.
type RenderFunc func(out *Output) error

// Render calls f.
func (f RenderFunc) Render(out *Output) error { return f(out) }

// Unimplemented is the abstract base of render operations. Embedding it
// satisfies Renderer; invoking it without overriding Render fails
// loudly instead of silently producing empty output.
type Unimplemented struct{}

// Render reports that the operation was not specialized.
func (Unimplemented) Render(*Output) error { return reportkit.ErrNotImplemented }
