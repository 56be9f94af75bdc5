package dialect

import (
	"fmt"
	"strings"
)

// mysqlDialect covers MySQL and MariaDB ("mysql" and "mysql2" engines).
type mysqlDialect struct{}

func (mysqlDialect) Name() string { return MySQL }

// EscapeString escapes both single quotes (by doubling) and backslashes,
// which MySQL treats as an escape character inside string literals.
func (mysqlDialect) EscapeString(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

func (d mysqlDialect) TypedLiteral(_ string, value any, escape bool) string {
	return genericLiteral(d, value, escape)
}

// ISOYearWeek uses YEARWEEK in mode 3: weeks start on Monday and the
// week containing the year's first Thursday is week 1, per ISO 8601.
func (mysqlDialect) ISOYearWeek(field string) (string, error) {
	return fmt.Sprintf("YEARWEEK(%s, 3)", field), nil
}
