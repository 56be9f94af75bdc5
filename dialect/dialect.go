// Package dialect provides database dialect abstraction for reportkit.
//
// A Dialect supplies the engine-specific pieces of SQL fragment
// generation: string escaping, typed literals, and the ISO 8601
// year-week bucketing expression used by grouped reports. Dialects are
// selected once per connection/session from the engine's reported name
// and are immutable afterwards.
package dialect

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Dialect name constants.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
	Generic  = "generic"
)

// ErrNoISOWeek is returned by dialects that have no ISO year-week
// expression (the generic dialect supports literal escaping only).
var ErrNoISOWeek = errors.New("dialect: iso year-week expression not supported")

// Dialect supplies engine-specific SQL fragment primitives.
type Dialect interface {
	// Name returns the dialect name constant.
	Name() string

	// EscapeString returns s with the dialect's string metacharacters
	// escaped. It does not add surrounding quotes.
	EscapeString(s string) string

	// TypedLiteral formats value as a SQL literal of the named type.
	// When escape is true the value is escaped and quoted; otherwise it
	// is emitted verbatim. Engines with cast syntax append it here.
	TypedLiteral(typ string, value any, escape bool) string

	// ISOYearWeek returns SQL computing an ISO 8601 (year, week) bucket
	// for the given date/timestamp expression, encoded as year*100+week.
	ISOYearWeek(field string) (string, error)
}

var logger *slog.Logger

// SetLogger installs a logger used to surface dialect-selection
// fallbacks. A nil logger keeps the package silent.
func SetLogger(l *slog.Logger) { logger = l }

// Detect selects a Dialect from a database engine name. The name is
// lower-cased and matched against the known engines; anything else
// falls back to the generic dialect rather than failing, trading strict
// correctness for availability.
//
// Wrapped or instrumented driver names are honored by prefix, so
// "mysql+tracing" still detects as MySQL.
func Detect(engine string) Dialect {
	switch name := strings.ToLower(engine); {
	case name == "mysql", name == "mysql2":
		return mysqlDialect{}
	case name == "sqlite":
		return sqliteDialect{}
	case name == "postgresql":
		return postgresDialect{}
	case strings.HasPrefix(name, MySQL):
		return mysqlDialect{}
	case strings.HasPrefix(name, SQLite):
		return sqliteDialect{}
	case strings.HasPrefix(name, Postgres):
		return postgresDialect{}
	default:
		if logger != nil {
			logger.Warn("unknown database engine, using generic dialect", "engine", engine)
		}
		return genericDialect{}
	}
}

// escapeQuotes doubles single quotes. This is the escaping primitive
// shared by the standard-conforming engines.
func escapeQuotes(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	return strings.ReplaceAll(s, "'", "''")
}

// genericLiteral implements the base typed-literal form: quote when
// escaping is requested, emit verbatim otherwise.
func genericLiteral(d Dialect, value any, escape bool) string {
	if !escape {
		return fmt.Sprint(value)
	}
	return "'" + d.EscapeString(fmt.Sprint(value)) + "'"
}

// genericDialect is the fallback for unrecognized engines: literal
// escaping only, no ISO-week override.
type genericDialect struct{}

func (genericDialect) Name() string { return Generic }

func (genericDialect) EscapeString(s string) string { return escapeQuotes(s) }

func (d genericDialect) TypedLiteral(_ string, value any, escape bool) string {
	return genericLiteral(d, value, escape)
}

func (genericDialect) ISOYearWeek(string) (string, error) {
	return "", ErrNoISOWeek
}
