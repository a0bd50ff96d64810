package ferrarini

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2"
)

// nationalHolidays is the Italian public holiday table shaded on the sheet.
// Easter Sunday and Easter Monday move with the Gregorian computus.
var nationalHolidays = []*cal.Holiday{
	{Name: "Capodanno", Type: cal.ObservancePublic, Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Epifania", Type: cal.ObservancePublic, Month: time.January, Day: 6, Func: cal.CalcDayOfMonth},
	{Name: "Festa della Liberazione", Type: cal.ObservancePublic, Month: time.April, Day: 25, Func: cal.CalcDayOfMonth},
	{Name: "Festa del Lavoro", Type: cal.ObservancePublic, Month: time.May, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Festa della Repubblica", Type: cal.ObservancePublic, Month: time.June, Day: 2, Func: cal.CalcDayOfMonth},
	{Name: "Ferragosto", Type: cal.ObservancePublic, Month: time.August, Day: 15, Func: cal.CalcDayOfMonth},
	{Name: "Ognissanti", Type: cal.ObservancePublic, Month: time.November, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Immacolata Concezione", Type: cal.ObservancePublic, Month: time.December, Day: 8, Func: cal.CalcDayOfMonth},
	{Name: "Natale", Type: cal.ObservancePublic, Month: time.December, Day: 25, Func: cal.CalcDayOfMonth},
	{Name: "Santo Stefano", Type: cal.ObservancePublic, Month: time.December, Day: 26, Func: cal.CalcDayOfMonth},
	{Name: "Pasqua", Type: cal.ObservancePublic, Offset: 0, Func: cal.CalcEasterOffset},
	{Name: "Pasquetta", Type: cal.ObservancePublic, Offset: 1, Func: cal.CalcEasterOffset},
}

var calendar = newCalendar()

// newCalendar creates a Monday to Friday calendar with the Italian holidays.
func newCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = "Italia"
	c.Description = "Italian national holidays"
	c.AddHoliday(nationalHolidays...)
	return c
}

// HolidaySet is the ascending, duplicate-free list of non-working
// days of one month.
type HolidaySet []int

// Contains reports whether day is a weekend or holiday.
func (h HolidaySet) Contains(day int) bool {
	i := sort.SearchInts(h, day)
	return i < len(h) && h[i] == day
}

// DaysIn returns the number of days of month in year.
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dayDate(month, day, year int) time.Time {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

// ComputeHolidays returns the weekends and Italian public holidays of
// month (1-12) in year. Days are checked one by one against the calendar,
// so Easter Monday lands in the month it actually falls in. The caller
// validates month.
func ComputeHolidays(month, year int) HolidaySet {
	days := DaysIn(month, year)
	set := make(HolidaySet, 0, days)
	for day := 1; day <= days; day++ {
		if !calendar.IsWorkday(dayDate(month, day, year)) {
			set = append(set, day)
		}
	}
	return set
}

// HolidayName returns the name of the public holiday on the given day,
// or "" for working days and plain weekends.
func HolidayName(month, day, year int) string {
	actual, _, h := calendar.IsHoliday(dayDate(month, day, year))
	if !actual || h == nil {
		return ""
	}
	return h.Name
}
