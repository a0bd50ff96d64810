package ferrarini

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const decimalFormat = "0.0"

// styleManager caches excelize styles so each Style is registered only
// once per file.
type styleManager struct {
	file  *excelize.File
	cache map[Style]int
}

func newStyleManager(f *excelize.File) *styleManager {
	return &styleManager{file: f, cache: make(map[Style]int)}
}

func (sm *styleManager) id(s Style) (int, error) {
	if id, ok := sm.cache[s]; ok {
		return id, nil
	}

	id, err := sm.file.NewStyle(excelStyle(s))
	if err != nil {
		return 0, err
	}

	sm.cache[s] = id
	return id, nil
}

func excelStyle(s Style) *excelize.Style {
	st := &excelize.Style{
		Font:      &excelize.Font{Family: fontFamily, Size: fontSize, Bold: s.Bold, Color: "000000"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: s.Wrap},
		Border:    excelBorders(s.Border),
	}
	if s.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}
	if s.Decimal {
		format := decimalFormat
		st.CustomNumFmt = &format
	}
	return st
}

func excelBorders(b Border) []excelize.Border {
	var out []excelize.Border
	for _, side := range []struct {
		name   string
		weight Weight
	}{
		{"left", b.Left},
		{"right", b.Right},
		{"top", b.Top},
		{"bottom", b.Bottom},
	} {
		if side.weight == WeightNone {
			continue
		}
		out = append(out, excelize.Border{Type: side.name, Color: "000000", Style: excelLineStyle(side.weight)})
	}
	return out
}

func excelLineStyle(w Weight) int {
	if w == WeightMedium {
		return 2
	}
	return 1
}

// WriteXLSX encodes every sheet, with styles, formulas, merges and
// column widths, as an Office Open XML workbook.
func (wb *Workbook) WriteXLSX(w io.Writer) error {
	f, err := wb.excelFile()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func (wb *Workbook) excelFile() (*excelize.File, error) {
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidParameter)
	}

	f := excelize.NewFile()
	styles := newStyleManager(f)

	for i, s := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("name sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %s: %w", s.Name, err)
		}

		if err := writeSheet(f, styles, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, styles *styleManager, s *Sheet) error {
	for r, row := range s.Rows {
		for c, cell := range row {
			ref := CellName(r, c)
			if cell.Formula != "" {
				if err := f.SetCellFormula(s.Name, ref, cell.Formula); err != nil {
					return fmt.Errorf("formula %s: %w", ref, err)
				}
			} else if !cell.Value.IsEmpty() {
				if err := f.SetCellValue(s.Name, ref, cell.Value.Any()); err != nil {
					return fmt.Errorf("value %s: %w", ref, err)
				}
			}

			id, err := styles.id(cell.Style)
			if err != nil {
				return fmt.Errorf("style %s: %w", ref, err)
			}
			if err := f.SetCellStyle(s.Name, ref, ref, id); err != nil {
				return fmt.Errorf("style %s: %w", ref, err)
			}
		}
	}

	for c, width := range s.ColWidths {
		col := ColumnName(c)
		if err := f.SetColWidth(s.Name, col, col, width); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}

	for _, m := range s.Merges {
		if err := f.MergeCell(s.Name, CellName(m.StartRow, m.StartCol), CellName(m.EndRow, m.EndCol)); err != nil {
			return fmt.Errorf("merge %s: %w", CellName(m.StartRow, m.StartCol), err)
		}
	}
	return nil
}

// flatten renders every sheet as rows of display strings, with formulas
// evaluated. Rows are padded to the sheet width.
func (wb *Workbook) flatten() ([][][]string, error) {
	f, err := wb.excelFile()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make([][][]string, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		rows, err := flattenSheet(f, s)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", s.Name, err)
		}
		out = append(out, rows)
	}
	return out, nil
}

func flattenSheet(f *excelize.File, s *Sheet) ([][]string, error) {
	width := s.Width()
	rows := make([][]string, len(s.Rows))
	for r, row := range s.Rows {
		rows[r] = make([]string, width)
		for c, cell := range row {
			text, err := displayValue(f, s.Name, r, c, cell)
			if err != nil {
				return nil, err
			}
			rows[r][c] = text
		}
	}
	return rows, nil
}

func displayValue(f *excelize.File, sheet string, r, c int, cell Cell) (string, error) {
	if cell.Formula != "" {
		ref := CellName(r, c)
		v, err := f.CalcCellValue(sheet, ref, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", fmt.Errorf("evaluate %s: %w", ref, err)
		}
		return v, nil
	}
	if cell.Value.IsNumber() && cell.Style.Decimal {
		return strconv.FormatFloat(cell.Value.Float(), 'f', 1, 64), nil
	}
	return cell.Value.String(), nil
}
