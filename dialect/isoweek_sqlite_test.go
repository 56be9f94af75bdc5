package dialect_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/reportkit/dialect"
)

// TestSQLiteISOYearWeekBoundaries evaluates the generated CASE
// expression against a real SQLite database for the year-boundary dates
// the expression exists to get right, and cross-checks every result
// against Go's own ISO week computation.
func TestSQLiteISOYearWeekBoundaries(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	d := dialect.Detect("sqlite")

	tests := []struct {
		date string
		want int // ISO year*100 + week
	}{
		// Jan 1-3 belonging to the last week of the previous year.
		{"2016-01-01", 201553},
		{"2016-01-02", 201553},
		{"2016-01-03", 201553},
		{"2017-01-01", 201652},
		{"2021-01-01", 202053},
		// Dec 29-31 belonging to week 1 of the next year.
		{"2014-12-29", 201501},
		{"2014-12-31", 201501},
		{"2019-12-30", 202001},
		// Week 1 starting before Jan 1 of its own year.
		{"2015-01-01", 201501},
		{"2015-01-04", 201501},
		{"2020-01-01", 202001},
		// Long years keep week 53 through Dec 31.
		{"2015-12-31", 201553},
		{"2020-12-31", 202053},
		// Plain mid-year and plain late-December dates.
		{"2016-01-04", 201601},
		{"2021-06-15", 202124},
		{"2014-12-28", 201452},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			expr, err := d.ISOYearWeek(fmt.Sprintf("date('%s')", tt.date))
			require.NoError(t, err)

			var got int
			require.NoError(t, db.QueryRow("SELECT "+expr).Scan(&got))
			assert.Equal(t, tt.want, got)

			// The fixture itself must agree with time.Time.ISOWeek.
			day, err := time.Parse("2006-01-02", tt.date)
			require.NoError(t, err)
			y, w := day.ISOWeek()
			assert.Equal(t, y*100+w, tt.want, "fixture out of line with ISO 8601")
		})
	}
}

// TestSQLiteISOYearWeekSweep runs the expression over every day of a
// decade that includes short years, long years, and leap years.
func TestSQLiteISOYearWeekSweep(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	d := dialect.Detect("sqlite")
	expr, err := d.ISOYearWeek("date(?1)")
	require.NoError(t, err)
	stmt, err := db.Prepare("SELECT " + expr)
	require.NoError(t, err)
	defer stmt.Close()

	for day := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC); day.Year() < 2022; day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		var got int
		require.NoError(t, stmt.QueryRow(date).Scan(&got))
		y, w := day.ISOWeek()
		if !assert.Equal(t, y*100+w, got, date) {
			break
		}
	}
}
