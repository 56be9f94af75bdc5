package sqlfrag

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Substitutes for nil report-row fields. Highest makes missing values
// sort last under Compare; Lowest makes them sort first.
var (
	Highest = math.Inf(1)
	Lowest  = math.Inf(-1)
)

// ConvertUnlessNil normalizes a heterogeneous report-row field before
// ordering: nil becomes nilAs (typically Highest or Lowest, or any
// caller-supplied default), and non-nil values are passed through fn
// when one is given.
func ConvertUnlessNil(value, nilAs any, fn func(any) any) any {
	if value == nil {
		return nilAs
	}
	if fn != nil {
		return fn(value)
	}
	return value
}

// Compare is the ordering primitive for report rows. Both operands are
// flattened into sequences and compared element-wise; nil-bearing or
// +Inf-bearing elements sort as strictly greater than any other value,
// so rows with missing fields sort last. The first differing pair
// determines the result; if all compared positions tie, the longer
// sequence sorts greater.
func Compare(a, b any) int {
	as := appendFlatKeep(nil, a)
	bs := appendFlatKeep(nil, b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareElem(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// SortRows stably sorts rows by the sequence key extracts, using
// Compare so rows with missing key fields end up last.
func SortRows[T any](rows []T, key func(T) any) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return Compare(key(a), key(b))
	})
}

// appendFlatKeep flattens nested sequences without the comma splitting
// Collection applies; ordering operates on values, not SQL text.
func appendFlatKeep(dst []any, v any) []any {
	if v == nil {
		return append(dst, v)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			dst = appendFlatKeep(dst, rv.Index(i).Interface())
		}
		return dst
	}
	return append(dst, v)
}

func compareElem(a, b any) int {
	at, bt := sortsLast(a), sortsLast(b)
	switch {
	case at && bt:
		return 0
	case at:
		return 1
	case bt:
		return -1
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if av, ok := a.(time.Time); ok {
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return strings.Compare(text(a), text(b))
}

// sortsLast reports whether v is nil or +Inf, the values that rank
// above everything else.
func sortsLast(v any) bool {
	if v == nil {
		return true
	}
	switch f := v.(type) {
	case float64:
		return math.IsInf(f, 1)
	case float32:
		return math.IsInf(float64(f), 1)
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
