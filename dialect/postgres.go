package dialect

import "fmt"

// postgresDialect covers PostgreSQL ("postgresql" engine).
type postgresDialect struct{}

func (postgresDialect) Name() string { return Postgres }

// EscapeString doubles single quotes. Backslashes are literal under
// standard_conforming_strings, the default since PostgreSQL 9.1.
func (postgresDialect) EscapeString(s string) string { return escapeQuotes(s) }

// TypedLiteral appends a ::type cast suffix to the generic literal form.
func (d postgresDialect) TypedLiteral(typ string, value any, escape bool) string {
	return genericLiteral(d, value, escape) + "::" + typ
}

// ISOYearWeek combines EXTRACT(ISOYEAR) and EXTRACT(WEEK). PostgreSQL's
// WEEK field is already ISO 8601 (Monday start, week 1 holds the first
// Thursday), so the pair is consistent across year boundaries without
// any day-of-week adjustment.
func (postgresDialect) ISOYearWeek(field string) (string, error) {
	return fmt.Sprintf("(EXTRACT(ISOYEAR FROM %s) * 100 + EXTRACT(WEEK FROM %s))", field, field), nil
}
