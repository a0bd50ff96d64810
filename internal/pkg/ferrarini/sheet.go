package ferrarini

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	companyBanner  = "Ellysse Srl  - ore mese"
	expenseBanner  = "Ellysse Srl   -   Rimborsi spese"
	completedLabel = "Compilazione completata"
	checkboxGlyph  = "☐"
	activityLabel  = "sviluppo"
	noDataLabel    = "No Data"
	workedTotal    = "TOTALE  ORE LAVORATE"
	grandTotal     = "TOTALE  ORE"
	datiSheetName  = "dati"
	errorMessage   = "Error generating sheet. Please check the data and try again."

	bannerWidth = 35
	gridTopRow  = 3
	firstDayCol = 2
)

var (
	monthNames = [12]string{
		"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
		"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
	}
	weekdayAbbrev = [7]string{"lun", "mar", "mer", "gio", "ven", "sab", "dom"}
	absenceLabels = []string{"FERIE", "PERMESSI", "MALATTIA"}
	expenseHeader = []string{
		"Data", "A", "Destinazione", "Km.", "Spesa Km", "Autostrada", "Parcheggio",
		"Mezzi Pubblici", "Vitto", "Alloggio", "Varie", "Totale", "NOTE",
	}
)

// MonthName returns the Italian month name used as sheet name.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// ColumnName converts a 0-based column index to spreadsheet letters (0 → A, 26 → AA).
func ColumnName(n int) string {
	result := ""
	for n >= 0 {
		result = string(rune('A'+(n%26))) + result
		n = n/26 - 1
	}
	return result
}

// CellName converts 0-based row and column indices to a cell reference (0,0 → A1).
func CellName(row, col int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row+1)
}

// Merge is an inclusive rectangle of 0-based coordinates.
type Merge struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// Sheet is one named worksheet with its persisted layout metadata.
type Sheet struct {
	Name      string
	Rows      [][]Cell
	ColWidths []float64
	Merges    []Merge
}

// Width is the length of the longest row.
func (s *Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Cell returns the cell at row, col or a blank one outside the grid.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return Cell{}
	}
	return s.Rows[row][col]
}

// RowIndex returns the first row whose leading cell reads label, or -1.
func (s *Sheet) RowIndex(label string) int {
	for i, r := range s.Rows {
		if len(r) > 0 && r[0].Formula == "" && r[0].Value.TextValue() == label {
			return i
		}
	}
	return -1
}

// MonthInput is everything BuildMonthSheet needs for one month.
type MonthInput struct {
	Month        int
	Year         int
	EmployeeName string
	Groups       []ProjectGroup
	Holidays     HolidaySet
	Expenses     []Expense
	Reporter     Reporter
}

type monthLayout struct {
	in       MonthInput
	days     int
	lastCol  int
	rows     [][]Cell
	holidays HolidaySet
}

// BuildMonthSheet lays out the timesheet of one month: banner, day grid,
// one row per project, totals, absence rows and the optional expense block.
func BuildMonthSheet(in MonthInput) (*Sheet, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidParameter, in.Month)
	}

	days := DaysIn(in.Month, in.Year)
	l := &monthLayout{
		in:       in,
		days:     days,
		lastCol:  days + 3,
		holidays: in.Holidays,
	}

	l.banner()
	l.spacers()
	l.dayHeaders()
	if err := l.projectRows(); err != nil {
		return nil, err
	}
	l.totalRow(workedTotal, true)
	l.absenceRows()
	l.totalRow(grandTotal, false)
	l.outlineGrid(len(l.rows) - 1)
	l.expenseSection()

	widths := make([]float64, 0, days+4)
	widths = append(widths, 20, 40)
	for d := 0; d < days; d++ {
		widths = append(widths, 6)
	}
	widths = append(widths, 15, 10)

	return &Sheet{
		Name:      MonthName(in.Month),
		Rows:      l.rows,
		ColWidths: widths,
		Merges: []Merge{
			{StartRow: 0, StartCol: 5, EndRow: 0, EndCol: 18},
			{StartRow: 0, StartCol: 19, EndRow: 0, EndCol: 33},
		},
	}, nil
}

func (l *monthLayout) dayOf(col int) int {
	return col - firstDayCol + 1
}

func (l *monthLayout) isDayCol(col int) bool {
	return col >= firstDayCol && col < firstDayCol+l.days
}

// shade returns base with the holiday fill when col is a non-working day.
func (l *monthLayout) shade(base Style, col int) Style {
	if l.isDayCol(col) && l.holidays.Contains(l.dayOf(col)) {
		return base.WithFill(fillHoliday)
	}
	return base
}

func (l *monthLayout) sumFormula(row int) string {
	return fmt.Sprintf("SUM(%s:%s)", CellName(row, firstDayCol), CellName(row, firstDayCol+l.days-1))
}

func (l *monthLayout) banner() {
	row := make([]Cell, 0, bannerWidth)
	row = append(row,
		textCell(companyBanner, headerStyle),
		textCell(MonthName(l.in.Month), headerStyle),
		numberCell(float64(l.in.Year), headerStyle),
		blankCell(headerStyle),
		blankCell(headerStyle),
		textCell(l.in.EmployeeName, headerStyle),
	)
	for i := 0; i < 13; i++ {
		row = append(row, blankCell(headerStyle))
	}
	row = append(row, textCell(completedLabel, headerStyle))
	for i := 0; i < 14; i++ {
		row = append(row, blankCell(headerStyle))
	}
	row = append(row, textCell(checkboxGlyph, checkboxStyle))
	l.rows = append(l.rows, row)
}

func (l *monthLayout) spacers() {
	for i := 0; i < 2; i++ {
		row := make([]Cell, l.lastCol+1)
		l.rows = append(l.rows, row)
	}
}

func (l *monthLayout) dayHeaders() {
	weekdays := make([]Cell, l.lastCol+1)
	numbers := make([]Cell, l.lastCol+1)
	for c := 0; c <= l.lastCol; c++ {
		st := l.shade(gridHeaderStyle, c)
		weekdays[c] = blankCell(st)
		numbers[c] = blankCell(st)
		if !l.isDayCol(c) {
			continue
		}
		day := l.dayOf(c)
		wd := time.Date(l.in.Year, time.Month(l.in.Month), day, 12, 0, 0, 0, time.UTC).Weekday()
		weekdays[c].Value = Text(weekdayAbbrev[(int(wd)+6)%7])
		numbers[c].Value = Text(fmt.Sprintf("%02d", day))
	}
	numbers[0].Value = Text("COMMESSA")
	numbers[1].Value = Text("SOTTO COMMESSA/CLIENTE")
	numbers[l.lastCol-1].Value = Text("NOTE VARIE")
	numbers[l.lastCol].Value = Text("TOTALI")
	l.rows = append(l.rows, weekdays, numbers)
}

func (l *monthLayout) projectRows() error {
	if len(l.in.Groups) == 0 {
		row := l.gridRow(dataStyle)
		row[0].Value = Text(activityLabel)
		row[1].Value = Text(noDataLabel)
		l.rows = append(l.rows, row)
		return nil
	}

	for _, g := range l.in.Groups {
		r := len(l.rows)
		row := l.gridRow(dataStyle)
		row[0].Value = Text(activityLabel)
		row[1].Value = Text(g.Label)

		for day, hours := range dailyHours(g, l.in.Reporter) {
			if day < 1 || day > l.days {
				return fmt.Errorf("project %q: day %d outside %s %d", g.Label, day, MonthName(l.in.Month), l.in.Year)
			}
			c := firstDayCol + day - 1
			row[c].Value = Number(math.Round(hours*10) / 10)
			row[c].Style = row[c].Style.WithDecimal()
		}
		row[l.lastCol] = formulaCell(l.sumFormula(r), dataStyle)
		l.rows = append(l.rows, row)
	}
	return nil
}

// gridRow returns a blank row of the day grid styled base, with
// holiday columns shaded.
func (l *monthLayout) gridRow(base Style) []Cell {
	row := make([]Cell, l.lastCol+1)
	for c := range row {
		row[c] = blankCell(l.shade(base, c))
	}
	return row
}

// totalRow appends a highlighted summary row. Worked-hours totals carry
// 0.0 placeholders to be filled in downstream.
func (l *monthLayout) totalRow(label string, placeholders bool) {
	row := l.gridRow(totalStyle)
	row[0].Value = Text(label)
	if placeholders {
		for c := firstDayCol; c < firstDayCol+l.days; c++ {
			row[c].Value = Number(0)
			row[c].Style = row[c].Style.WithDecimal()
		}
		row[l.lastCol].Value = Number(0)
		row[l.lastCol].Style = row[l.lastCol].Style.WithDecimal()
	}
	l.rows = append(l.rows, row)
}

func (l *monthLayout) absenceRows() {
	for _, label := range absenceLabels {
		r := len(l.rows)
		row := l.gridRow(plainStyle)
		row[0].Value = Text(label)
		row[l.lastCol] = formulaCell(l.sumFormula(r), plainStyle)
		l.rows = append(l.rows, row)
	}
}

// outlineGrid upgrades the outer edges of the bordered block, from the
// weekday header down to bottom, to medium weight. Borderless rows stay
// borderless.
func (l *monthLayout) outlineGrid(bottom int) {
	for r := gridTopRow; r <= bottom; r++ {
		for c := 0; c <= l.lastCol; c++ {
			cell := &l.rows[r][c]
			if !cell.Style.HasBorder() {
				continue
			}
			b := cell.Style.Border
			if r == gridTopRow {
				b.Top = WeightMedium
			}
			if r == bottom {
				b.Bottom = WeightMedium
			}
			if c == 0 {
				b.Left = WeightMedium
			}
			if c == l.lastCol {
				b.Right = WeightMedium
			}
			cell.Style = cell.Style.WithBorder(b)
		}
	}
}

func (l *monthLayout) expenseSection() {
	if len(l.in.Expenses) == 0 {
		return
	}

	l.rows = append(l.rows, nil)

	banner := make([]Cell, len(expenseHeader))
	for c := range banner {
		banner[c] = blankCell(expenseHeaderStyle)
	}
	banner[0].Value = Text(expenseBanner)
	banner[3].Value = Number(float64(l.in.Month))
	banner[4].Value = Number(float64(l.in.Year))
	banner[7].Value = Text(l.in.EmployeeName)
	l.rows = append(l.rows, banner)

	header := make([]Cell, len(expenseHeader))
	for c, label := range expenseHeader {
		header[c] = textCell(label, expenseHeaderStyle)
	}
	l.rows = append(l.rows, header)

	for _, e := range l.in.Expenses {
		r := len(l.rows)
		l.rows = append(l.rows, []Cell{
			textCell(strings.TrimSpace(e.Date), dataStyle),
			blankCell(dataStyle),
			textCell(e.Destination, dataStyle),
			numberCell(e.Km, dataStyle),
			numberCell(e.KmCost, dataStyle),
			numberCell(e.Toll, dataStyle),
			numberCell(e.Parking, dataStyle),
			numberCell(e.PublicTransport, dataStyle),
			numberCell(e.Food, dataStyle),
			numberCell(e.Accommodation, dataStyle),
			numberCell(e.Other, dataStyle),
			formulaCell(fmt.Sprintf("SUM(%s:%s)", CellName(r, 4), CellName(r, 10)), dataStyle),
			textCell(e.Notes, dataStyle),
		})
	}
}

// DatiSheet is the metadata sheet leading a full-year workbook.
func DatiSheet(year int, employeeName string, created time.Time) *Sheet {
	return &Sheet{
		Name: datiSheetName,
		Rows: [][]Cell{
			{textCell("DATI GENERALI", headerStyle)},
			{textCell("Anno", dataStyle), numberCell(float64(year), dataStyle)},
			{textCell("Nome Collaboratore", dataStyle), textCell(employeeName, dataStyle)},
			{textCell("Data Creazione", dataStyle), textCell(created.Format("2006-01-02"), dataStyle)},
			{textCell("Firma Collaboratore", dataStyle), blankCell(dataStyle)},
			{textCell("Firma Responsabile", dataStyle), blankCell(dataStyle)},
			{textCell("Data Approvazione", dataStyle), blankCell(dataStyle)},
		},
		ColWidths: []float64{25, 30},
	}
}

// ErrorSheet stands in for a month whose sheet could not be built.
func ErrorSheet(month, year int, employeeName string, cause error) *Sheet {
	return &Sheet{
		Name: MonthName(month),
		Rows: [][]Cell{
			{
				textCell(companyBanner, plainStyle),
				textCell(fmt.Sprintf("Error: %v", cause), plainStyle),
				numberCell(float64(year), plainStyle),
				blankCell(plainStyle),
				blankCell(plainStyle),
				textCell(employeeName, plainStyle),
			},
			make([]Cell, bannerWidth),
			{textCell(errorMessage, plainStyle)},
		},
	}
}
