package ferrarini

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultProject collects shifts that carry no project label.
const DefaultProject = "Default"

// Shift is a worked interval as stored: timestamps stay raw strings so a
// single unparseable record can be skipped instead of failing the export.
type Shift struct {
	ID        string `json:"id,omitempty"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Project   string `json:"project,omitempty"`
}

func (s Shift) label() string {
	if strings.TrimSpace(s.Project) == "" {
		return DefaultProject
	}
	return s.Project
}

func (s Shift) ref() string {
	if s.ID != "" {
		return s.ID
	}
	return s.StartTime
}

// Expense is one reimbursable trip. Missing amounts decode as zero.
type Expense struct {
	Date            string  `json:"date"`
	Destination     string  `json:"destination"`
	Km              float64 `json:"km"`
	KmCost          float64 `json:"kmCost"`
	Toll            float64 `json:"toll"`
	Parking         float64 `json:"parking"`
	PublicTransport float64 `json:"publicTransport"`
	Food            float64 `json:"food"`
	Accommodation   float64 `json:"accommodation"`
	Other           float64 `json:"other"`
	Notes           string  `json:"notes,omitempty"`
}

// ProjectGroup is the shifts of one project label, in input order.
type ProjectGroup struct {
	Label  string
	Shifts []Shift
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

var errMissingTimestamp = errors.New("missing timestamp")

// parseTimestamp reads a stored timestamp. Values without a zone are UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errMissingTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// parseExpenseDate reads an expense date as a calendar date in loc.
func parseExpenseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func parseShift(s Shift) (start, end time.Time, err error) {
	start, err = parseTimestamp(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_time: %w", err)
	}
	end, err = parseTimestamp(s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_time: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_time %s before start_time %s", s.EndTime, s.StartTime)
	}
	return start, end, nil
}

// ShiftInMonthUTC matches a shift start against month/year on the UTC calendar.
func ShiftInMonthUTC(start time.Time, month, year int) bool {
	u := start.UTC()
	return u.Year() == year && int(u.Month()) == month
}

// ExpenseInMonthLocal matches an expense date against month/year on the
// calendar of loc. Shifts use UTC and expenses use local dates; the two
// are kept apart on purpose.
func ExpenseInMonthLocal(date time.Time, month, year int, loc *time.Location) bool {
	d := date.In(loc)
	return d.Year() == year && int(d.Month()) == month
}

// HoursOf returns the length of a shift in hours, or 0 when either
// timestamp is unusable (the problem goes to rep).
func HoursOf(s Shift, rep Reporter) float64 {
	start, end, err := parseShift(s)
	if err != nil {
		reporterOrDiscard(rep).Report(Issue{Kind: KindMalformedRecord, Record: s.ref(), Err: err})
		return 0
	}
	return end.Sub(start).Hours()
}

// ValidShifts drops the shifts whose timestamps cannot be used, reporting
// each one once.
func ValidShifts(shifts []Shift, rep Reporter) []Shift {
	rep = reporterOrDiscard(rep)
	valid := make([]Shift, 0, len(shifts))
	for _, s := range shifts {
		if _, _, err := parseShift(s); err != nil {
			rep.Report(Issue{Kind: KindMalformedRecord, Record: s.ref(), Err: err})
			continue
		}
		valid = append(valid, s)
	}
	return valid
}

// SelectAndGroup keeps the shifts that start in month/year (UTC) and
// groups them by project label in order of first appearance.
func SelectAndGroup(shifts []Shift, month, year int, rep Reporter) []ProjectGroup {
	rep = reporterOrDiscard(rep)
	var groups []ProjectGroup
	index := make(map[string]int)

	for _, s := range shifts {
		start, _, err := parseShift(s)
		if err != nil {
			rep.Report(Issue{Kind: KindMalformedRecord, Month: month, Record: s.ref(), Err: err})
			continue
		}
		if !ShiftInMonthUTC(start, month, year) {
			continue
		}
		label := s.label()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, ProjectGroup{Label: label})
		}
		groups[i].Shifts = append(groups[i].Shifts, s)
	}
	return groups
}

// SelectExpenses keeps the expenses dated in month/year on loc's calendar.
func SelectExpenses(expenses []Expense, month, year int, loc *time.Location, rep Reporter) []Expense {
	rep = reporterOrDiscard(rep)
	if loc == nil {
		loc = time.Local
	}
	var out []Expense
	for _, e := range expenses {
		date, err := parseExpenseDate(e.Date, loc)
		if err != nil {
			rep.Report(Issue{Kind: KindMalformedRecord, Month: month, Record: e.Date, Err: fmt.Errorf("expense date: %w", err)})
			continue
		}
		if ExpenseInMonthLocal(date, month, year, loc) {
			out = append(out, e)
		}
	}
	return out
}

// dailyHours sums the hours of a group per UTC day of month.
func dailyHours(g ProjectGroup, rep Reporter) map[int]float64 {
	out := make(map[int]float64)
	for _, s := range g.Shifts {
		start, err := parseTimestamp(s.StartTime)
		if err != nil {
			continue
		}
		out[start.UTC().Day()] += HoursOf(s, rep)
	}
	return out
}
