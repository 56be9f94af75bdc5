// Package sqlfrag provides stateless SQL fragment builders for
// reporting queries: value quoting, collection literals, field and
// table name resolution, CASE expression synthesis, and ISO year-week
// bucketing. Output is opaque text consumed by an external query
// executor; this is not a SQL parser or query planner.
//
// All fragment generation goes through a Builder, which receives the
// active dialect from the dialect registry. The package-level functions
// delegate to a default builder registered at load time, so binding a
// dialect once (dialect.Bind or Engine.Bind) is enough for every call
// site in the process.
package sqlfrag

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/syssam/reportkit"
	"github.com/syssam/reportkit/dialect"
)

// TableNamer is implemented by model-layer objects that expose an
// explicit physical table name.
type TableNamer interface {
	TableName() string
}

// CaseBranch is one WHEN/THEN arm of a CASE expression.
type CaseBranch struct {
	When string // Raw SQL condition
	Then any    // Field reference, resolved with FieldName
}

// Builder generates SQL fragments using the active dialect. The zero
// value is usable and falls back to the dialect registry's active
// dialect; New additionally registers the builder so it receives
// dialect updates eagerly.
type Builder struct {
	mu sync.RWMutex
	d  dialect.Dialect
}

// New returns a Builder registered with the dialect registry. A dialect
// bound before or after this call reaches the builder either way.
func New() *Builder {
	b := &Builder{}
	dialect.Register(b)
	return b
}

// std is the process-wide builder behind the package-level functions.
var std = New()

var _ dialect.DialectAware = (*Builder)(nil)

// tableMemo and weekMemo retain pure name/expression computations for
// the process lifetime.
var (
	tableMemo Memo[string]
	weekMemo  Memo[weekResult]
)

// weekResult memoizes the dialect's answer, including the unsupported
// case, which is deterministic per dialect.
type weekResult struct {
	expr string
	err  error
}

// UseDialect implements dialect.DialectAware.
func (b *Builder) UseDialect(d dialect.Dialect) {
	b.mu.Lock()
	b.d = d
	b.mu.Unlock()
}

func (b *Builder) dialect() dialect.Dialect {
	b.mu.RLock()
	d := b.d
	b.mu.RUnlock()
	if d == nil {
		return dialect.Active()
	}
	return d
}

// QuoteString escapes value with the dialect's escaping primitive.
// Values that are not text (e.g., numbers) pass through unchanged in
// their textual form.
func (b *Builder) QuoteString(value any) string {
	if s, ok := value.(string); ok {
		return b.dialect().EscapeString(s)
	}
	return fmt.Sprint(value)
}

// TypedLiteral formats value as a SQL literal of the named type using
// the active dialect.
func (b *Builder) TypedLiteral(typ string, value any, escape bool) string {
	return b.dialect().TypedLiteral(typ, value, escape)
}

// Collection builds a parenthesized list literal: nested sequences are
// flattened, comma-bearing strings are split into multiple elements,
// string elements are individually quoted, and the result is joined as
// (v1, v2, ...).
//
// Zero values degrade to the empty string rather than failing. Callers
// must treat an empty fragment as "no constraint"; an empty IN () is
// never emitted.
func (b *Builder) Collection(values ...any) string {
	var flat []any
	for _, v := range values {
		flat = appendFlat(flat, v)
	}
	if len(flat) == 0 {
		return ""
	}
	parts := make([]string, len(flat))
	for i, v := range flat {
		switch s := v.(type) {
		case nil:
			parts[i] = "''"
		case string:
			parts[i] = "'" + b.dialect().EscapeString(s) + "'"
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// appendFlat flattens nested sequences and splits comma-bearing strings.
func appendFlat(dst []any, v any) []any {
	if v == nil {
		return append(dst, v)
	}
	if s, ok := v.(string); ok {
		if strings.Contains(s, ",") {
			for _, part := range strings.Split(s, ",") {
				dst = append(dst, part)
			}
			return dst
		}
		return append(dst, s)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			dst = appendFlat(dst, rv.Index(i).Interface())
		}
		return dst
	}
	return append(dst, v)
}

// TableName resolves an object to its physical table identifier: the
// explicit TableName method when the object exposes one, otherwise the
// tableized form of its textual name ("Issue" and "issue" both resolve
// to "issues").
func (b *Builder) TableName(obj any) string {
	switch o := obj.(type) {
	case TableNamer:
		return o.TableName()
	case string:
		return tableizeCached(o)
	case fmt.Stringer:
		return tableizeCached(o.String())
	default:
		return tableizeCached(fmt.Sprint(obj))
	}
}

func tableizeCached(name string) string {
	return tableMemo.Get("tableize", name, func() string {
		return inflect.Tableize(name)
	})
}

// FieldName resolves a field reference to SQL text:
//
//   - nil resolves to "NULL"
//   - a two-element pair {table-like, column} resolves to
//     "<table>.<column>", with the table-like part going through
//     TableName
//   - a string already containing a dot, whitespace or a function call
//     is treated as qualified SQL and returned unchanged
//   - any other string is combined with defaultTable when one is given,
//     and returned unqualified otherwise
//
// Anything else is a caller contract violation and returns a
// FieldRefError rather than guessable-but-wrong SQL.
func (b *Builder) FieldName(ref any, defaultTable string) (string, error) {
	switch r := ref.(type) {
	case nil:
		return "NULL", nil
	case []any:
		if len(r) != 2 {
			return "", reportkit.NewFieldRefError(ref)
		}
		return b.TableName(r[0]) + "." + fmt.Sprint(r[1]), nil
	case []string:
		if len(r) != 2 {
			return "", reportkit.NewFieldRefError(ref)
		}
		return b.TableName(r[0]) + "." + r[1], nil
	case [2]string:
		return b.TableName(r[0]) + "." + r[1], nil
	case string:
		if qualified(r) {
			return r, nil
		}
		if defaultTable != "" {
			return defaultTable + "." + r, nil
		}
		return r, nil
	default:
		return "", reportkit.NewFieldRefError(ref)
	}
}

// qualified reports whether s already reads as qualified SQL: it names
// a table, carries whitespace, or is a function call.
func qualified(s string) bool {
	return strings.ContainsAny(s, ". \t\n(")
}

// Switch synthesizes a CASE expression. Branch order is preserved from
// the input since WHEN clauses are evaluated top to bottom.
func (b *Builder) Switch(branches []CaseBranch, elseRef any) (string, error) {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, br := range branches {
		then, err := b.FieldName(br.Then, "")
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, " WHEN %s THEN %s", br.When, then)
	}
	alt, err := b.FieldName(elseRef, "")
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, " ELSE %s END", alt)
	return sb.String(), nil
}

// ISOYearWeek resolves ref like FieldName and returns the dialect's ISO
// year-week bucketing expression for it. Expressions are memoized per
// (dialect, field) for the process lifetime.
func (b *Builder) ISOYearWeek(ref any, defaultTable string) (string, error) {
	field, err := b.FieldName(ref, defaultTable)
	if err != nil {
		return "", err
	}
	d := b.dialect()
	res := weekMemo.Get(d.Name(), field, func() weekResult {
		expr, err := d.ISOYearWeek(field)
		return weekResult{expr: expr, err: err}
	})
	return res.expr, res.err
}

// Package-level functions delegating to the default builder.

// QuoteString escapes value with the active dialect. See Builder.QuoteString.
func QuoteString(value any) string { return std.QuoteString(value) }

// TypedLiteral formats a typed literal with the active dialect. See Builder.TypedLiteral.
func TypedLiteral(typ string, value any, escape bool) string {
	return std.TypedLiteral(typ, value, escape)
}

// Collection builds a parenthesized list literal. See Builder.Collection.
func Collection(values ...any) string { return std.Collection(values...) }

// TableName resolves an object to its table identifier. See Builder.TableName.
func TableName(obj any) string { return std.TableName(obj) }

// FieldName resolves a field reference to SQL text. See Builder.FieldName.
func FieldName(ref any, defaultTable string) (string, error) {
	return std.FieldName(ref, defaultTable)
}

// Switch synthesizes a CASE expression. See Builder.Switch.
func Switch(branches []CaseBranch, elseRef any) (string, error) {
	return std.Switch(branches, elseRef)
}

// ISOYearWeek returns the ISO year-week expression for a field
// reference. See Builder.ISOYearWeek.
func ISOYearWeek(ref any, defaultTable string) (string, error) {
	return std.ISOYearWeek(ref, defaultTable)
}
