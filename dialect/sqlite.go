package dialect

import (
	"fmt"
	"strings"
)

// sqliteDialect covers SQLite ("sqlite" engine).
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return SQLite }

func (sqliteDialect) EscapeString(s string) string { return escapeQuotes(s) }

func (d sqliteDialect) TypedLiteral(_ string, value any, escape bool) string {
	return genericLiteral(d, value, escape)
}

// ISOYearWeek builds a CASE expression because SQLite's date functions
// have no native ISO-week mode. The week's Thursday, obtained with
// date(f, '-3 days', 'weekday 4'), always lies inside the ISO year the
// week belongs to; the branches handle the year-boundary cases:
//
//  1. Jan 1-3 whose week's Thursday falls in the previous year belong
//     to week 52/53 of that year.
//  2. Dec 29-31 whose week's Thursday falls in the next year belong to
//     week 1 of that year.
//  3. Remaining January days before the year's first Monday (%W = 00)
//     are in week 1, which started before Jan 1.
//  4. The ordinary case: week number from the Thursday's day-of-year.
//
// The result is encoded as year*100+week to match the other dialects.
func (sqliteDialect) ISOYearWeek(field string) (string, error) {
	var (
		thu      = fmt.Sprintf("date(%s, '-3 days', 'weekday 4')", field)
		year     = fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", field)
		thuYear  = fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", thu)
		thuWeek  = fmt.Sprintf("(CAST(strftime('%%j', %s) AS INTEGER) - 1) / 7 + 1", thu)
		month    = fmt.Sprintf("strftime('%%m', %s)", field)
		day      = fmt.Sprintf("CAST(strftime('%%d', %s) AS INTEGER)", field)
		mondayWk = fmt.Sprintf("CAST(strftime('%%W', %s) AS INTEGER)", field)
	)
	var b strings.Builder
	fmt.Fprintf(&b, "CASE WHEN %s = '01' AND %s <= 3 AND %s < %s THEN %s * 100 + %s",
		month, day, thuYear, year, thuYear, thuWeek)
	fmt.Fprintf(&b, " WHEN %s = '12' AND %s >= 29 AND %s > %s THEN %s * 100 + 1",
		month, day, thuYear, year, thuYear)
	fmt.Fprintf(&b, " WHEN %s = 0 THEN %s * 100 + 1", mondayWk, year)
	fmt.Fprintf(&b, " ELSE %s * 100 + %s END", year, thuWeek)
	return b.String(), nil
}
