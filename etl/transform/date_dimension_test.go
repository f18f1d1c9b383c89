package transform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/transform"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestGenerateDateDimensionWeek(t *testing.T) {
	// 2024-01-01 is a Monday.
	rows := transform.GenerateDateDimension(date(2024, time.January, 1), date(2024, time.January, 7))
	require.Len(t, rows, 7)

	for i, row := range rows {
		require.Equal(t, i+1, row.DayOfWeek)
		require.Equal(t, 2024, row.Year)
		require.Equal(t, 1, row.Quarter)
		require.Equal(t, 1, row.Month)
		require.Equal(t, "January", row.MonthName)
		require.Equal(t, i+1, row.Day)
		require.Equal(t, 1, row.WeekOfYear)
		require.False(t, row.IsHoliday)
	}

	require.Equal(t, "Monday", rows[0].DayName)
	require.Equal(t, "Saturday", rows[5].DayName)
	require.Equal(t, "Sunday", rows[6].DayName)

	require.False(t, rows[4].IsWeekend)
	require.True(t, rows[5].IsWeekend)
	require.True(t, rows[6].IsWeekend)
}

func TestGenerateDateDimensionInclusiveRange(t *testing.T) {
	rows := transform.GenerateDateDimension(date(2023, time.January, 1), date(2024, time.December, 31))
	// 2023 has 365 days, 2024 is a leap year with 366.
	require.Len(t, rows, 731)

	require.Equal(t, date(2023, time.January, 1), rows[0].DateValue)
	require.Equal(t, date(2024, time.December, 31), rows[len(rows)-1].DateValue)

	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		key := row.DateValue.Format("2006-01-02")
		_, dup := seen[key]
		require.False(t, dup, "duplicate date %s", key)
		seen[key] = struct{}{}

		if i > 0 {
			require.True(t, rows[i-1].DateValue.Before(row.DateValue))
		}
	}
}

func TestGenerateDateDimensionSingleDay(t *testing.T) {
	rows := transform.GenerateDateDimension(date(2024, time.June, 15), date(2024, time.June, 15))
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Quarter)
	require.Equal(t, "June", rows[0].MonthName)
	require.Equal(t, 6, rows[0].DayOfWeek) // Saturday
	require.True(t, rows[0].IsWeekend)
}

func TestGenerateDateDimensionISOWeekBoundary(t *testing.T) {
	// 2023-01-01 is a Sunday belonging to ISO week 52 of 2022.
	rows := transform.GenerateDateDimension(date(2023, time.January, 1), date(2023, time.January, 2))
	require.Len(t, rows, 2)

	require.Equal(t, 7, rows[0].DayOfWeek)
	require.Equal(t, "Sunday", rows[0].DayName)
	require.Equal(t, 52, rows[0].WeekOfYear)

	require.Equal(t, 1, rows[1].DayOfWeek)
	require.Equal(t, 1, rows[1].WeekOfYear)
}

func TestGenerateDateDimensionQuarters(t *testing.T) {
	cases := []struct {
		month   time.Month
		quarter int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}

	for _, tc := range cases {
		rows := transform.GenerateDateDimension(date(2024, tc.month, 10), date(2024, tc.month, 10))
		require.Len(t, rows, 1)
		require.Equal(t, tc.quarter, rows[0].Quarter, "month %s", tc.month)
	}
}
