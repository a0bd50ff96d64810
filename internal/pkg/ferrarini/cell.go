// Package ferrarini renders shift and expense records into the fixed
// monthly timesheet layout used for payroll submission.
package ferrarini

import "strconv"

type valueKind int

const (
	kindEmpty valueKind = iota
	kindText
	kindNumber
)

// Value is the literal content of a cell: empty, text or number.
type Value struct {
	kind valueKind
	text string
	num  float64
}

func Empty() Value { return Value{} }
func Text(s string) Value { return Value{kind: kindText, text: s} }
func Number(n float64) Value { return Value{kind: kindNumber, num: n} }
func (v Value) IsEmpty() bool { return v.kind == kindEmpty }
func (v Value) IsNumber() bool { return v.kind == kindNumber }
func (v Value) Float() float64 { return v.num }
func (v Value) TextValue() string { return v.text }

// Any returns the value in the shape excelize.SetCellValue expects.
func (v Value) Any() interface{} {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return v.num
	default:
		return ""
	}
}

// String renders the value the way a plain-text export shows it.
func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Cell is one styled grid position. When Formula is set the value is
// computed by the spreadsheet and Value is ignored.
type Cell struct {
	Value   Value
	Formula string
	Style   Style
}

func textCell(s string, st Style) Cell { return Cell{Value: Text(s), Style: st} }
func numberCell(n float64, st Style) Cell { return Cell{Value: Number(n), Style: st} }
func blankCell(st Style) Cell { return Cell{Style: st} }
func formulaCell(f string, st Style) Cell { return Cell{Formula: f, Style: st} }

// Weight is a border line weight.
type Weight int

const (
	WeightNone Weight = iota
	WeightThin
	WeightMedium
)

// Border holds the line weight of each side of a cell.
type Border struct {
	Top, Bottom, Left, Right Weight
}

func uniformBorder(w Weight) Border {
	return Border{Top: w, Bottom: w, Left: w, Right: w}
}

// Style is an immutable style record. Variants are derived by value with
// the With* helpers so no two rows ever share mutable style state.
type Style struct {
	Bold    bool
	Wrap    bool
	Fill    string // RGB hex, empty for no fill
	Border  Border
	Decimal bool // render numbers with one decimal place
}

func (s Style) WithFill(rgb string) Style {
	s.Fill = rgb
	return s
}

func (s Style) WithBorder(b Border) Style {
	s.Border = b
	return s
}

func (s Style) WithoutBorder() Style {
	s.Border = Border{}
	return s
}

func (s Style) WithDecimal() Style {
	s.Decimal = true
	return s
}

func (s Style) HasBorder() bool {
	return s.Border != Border{}
}

const (
	fillHoliday = "C6EFCE"
	fillTotal   = "FFFF00"
	fillExpense = "E9E9E9"

	fontFamily = "Calibri"
	fontSize   = 11
)

var (
	thinBorder = uniformBorder(WeightThin)

	headerStyle        = Style{Bold: true, Wrap: true}
	checkboxStyle      = Style{Bold: true, Border: thinBorder}
	totalStyle         = Style{Bold: true, Fill: fillTotal, Border: thinBorder}
	dataStyle          = Style{Border: thinBorder}
	plainStyle         = Style{}
	holidayStyle       = dataStyle.WithFill(fillHoliday)
	expenseHeaderStyle = Style{Bold: true, Fill: fillExpense, Border: thinBorder}
	gridHeaderStyle    = headerStyle.WithBorder(thinBorder)
)
