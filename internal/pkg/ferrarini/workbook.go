package ferrarini

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	MinYear = 1970
	MaxYear = 9999
)

// Format is the serialization of an exported workbook.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts xlsx, csv or pdf in any case. An empty string is xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidParameter, s)
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Request describes one export. Month 0 exports the whole year.
type Request struct {
	Year         int
	Month        int
	EmployeeName string
	Shifts       []Shift
	Expenses     []Expense
	Format       Format
}

// FullYear reports whether every month of Year is exported.
func (r Request) FullYear() bool {
	return r.Month == 0
}

func (r Request) format() Format {
	if r.Format == "" {
		return FormatXLSX
	}
	return r.Format
}

func (r Request) months() []int {
	if !r.FullYear() {
		return []int{r.Month}
	}
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// Validate rejects requests no sheet can be built for.
func (r Request) Validate() error {
	if r.Year < MinYear || r.Year > MaxYear {
		return fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidParameter, r.Year, MinYear, MaxYear)
	}
	if r.Month < 0 || r.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidParameter, r.Month)
	}
	switch r.format() {
	case FormatXLSX, FormatCSV, FormatPDF:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidParameter, r.Format)
	}
	if r.FullYear() && r.format() == FormatCSV {
		return fmt.Errorf("%w: csv holds a single month", ErrInvalidParameter)
	}
	return nil
}

// Workbook is the ordered list of sheets of one export.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet called name, or nil.
func (wb *Workbook) Sheet(name string) *Sheet {
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Write serializes the workbook in format f.
func (wb *Workbook) Write(w io.Writer, f Format) error {
	switch f {
	case FormatXLSX, "":
		return wb.WriteXLSX(w)
	case FormatCSV:
		return wb.WriteCSV(w)
	case FormatPDF:
		return wb.WritePDF(w)
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidParameter, f)
	}
}

// Bytes serializes the workbook in format f into memory.
func (wb *Workbook) Bytes(f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := wb.Write(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Assembler turns a request into a workbook. The zero value reports
// nothing, matches expenses on the local calendar and stamps the
// metadata sheet with the wall clock.
type Assembler struct {
	Reporter Reporter
	Location *time.Location
	Now      func() time.Time

	build func(MonthInput) (*Sheet, error)
}

// Assemble validates req and builds its sheets. A month that fails to
// build is replaced by an error sheet and the remaining months go on.
func (a *Assembler) Assemble(req Request) (*Workbook, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rep := reporterOrDiscard(a.Reporter)
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	shifts := ValidShifts(req.Shifts, rep)
	expenses := validExpenses(req.Expenses, loc, rep)

	wb := &Workbook{}
	if req.FullYear() {
		wb.Sheets = append(wb.Sheets, DatiSheet(req.Year, req.EmployeeName, now().In(loc)))
	}

	for _, m := range req.months() {
		in := MonthInput{
			Month:        m,
			Year:         req.Year,
			EmployeeName: req.EmployeeName,
			Groups:       SelectAndGroup(shifts, m, req.Year, rep),
			Holidays:     ComputeHolidays(m, req.Year),
			Expenses:     SelectExpenses(expenses, m, req.Year, loc, rep),
			Reporter:     rep,
		}
		sheet, err := a.buildMonth(in)
		if err != nil {
			rep.Report(Issue{Kind: KindSheetGenerationFailure, Month: m, Err: err})
			sheet = ErrorSheet(m, req.Year, req.EmployeeName, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func (a *Assembler) buildMonth(in MonthInput) (sheet *Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheet, err = nil, fmt.Errorf("panic building %s %d: %v", MonthName(in.Month), in.Year, r)
		}
	}()
	build := a.build
	if build == nil {
		build = BuildMonthSheet
	}
	return build(in)
}

func validExpenses(expenses []Expense, loc *time.Location, rep Reporter) []Expense {
	valid := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if _, err := parseExpenseDate(e.Date, loc); err != nil {
			rep.Report(Issue{Kind: KindMalformedRecord, Record: e.Date, Err: fmt.Errorf("expense date: %w", err)})
			continue
		}
		valid = append(valid, e)
	}
	return valid
}
