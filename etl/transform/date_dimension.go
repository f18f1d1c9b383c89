package transform

import (
	"time"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/models"
)

var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// GenerateDateDimension produces one row per calendar day in the inclusive
// range [start, end], ascending. Day of week runs 1=Monday..7=Sunday; a day
// is a weekend iff it falls on Saturday or Sunday. Holidays default to
// false (no holiday calendar is integrated). Surrogate keys are assigned at
// load time and left zero here.
func GenerateDateDimension(start, end time.Time) []models.DateDimension {
	start = midnightUTC(start)
	end = midnightUTC(end)

	var rows []models.DateDimension
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		month := int(current.Month())
		dayOfWeek := isoWeekday(current)
		_, week := current.ISOWeek()

		rows = append(rows, models.DateDimension{
			DateValue:  current,
			Year:       current.Year(),
			Quarter:    (month-1)/3 + 1,
			Month:      month,
			MonthName:  monthNames[month-1],
			Day:        current.Day(),
			DayOfWeek:  dayOfWeek,
			DayName:    dayNames[dayOfWeek-1],
			WeekOfYear: week,
			IsWeekend:  dayOfWeek >= 6,
			IsHoliday:  false,
		})
	}

	return rows
}

// isoWeekday maps time.Weekday (Sunday=0) to the 1=Monday..7=Sunday scheme.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
