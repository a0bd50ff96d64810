package ferrarini

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin       = 10.0
	pdfRowHeight    = 6.0
	pdfFontSize     = 7.0
	pdfUnitWidth    = 2.0 // mm per column width unit
	pdfDefaultWidth = 12.0
	pdfThinLine     = 0.1
	pdfMediumLine   = 0.5
)

// WritePDF renders each sheet on its own A3 landscape page, keeping the
// fills, borders and merged banners of the spreadsheet.
func (wb *Workbook) WritePDF(w io.Writer) error {
	sheets, err := wb.flatten()
	if err != nil {
		return err
	}

	pdf := gofpdf.New("L", "mm", "A3", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, s := range wb.Sheets {
		renderPDFSheet(pdf, tr, s, sheets[i])
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderPDFSheet(pdf *gofpdf.Fpdf, tr func(string) string, s *Sheet, values [][]string) {
	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	widths := pdfColumnWidths(s, pageWidth-2*pdfMargin)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, tr(s.Name), "", 1, "L", false, 0, "")

	spans, covered := mergeSpans(s)
	for r, row := range s.Rows {
		x := pdfMargin
		y := pdf.GetY()
		for c, cell := range row {
			w := widths[c]
			if covered[[2]int{r, c}] {
				x += w
				continue
			}
			if end, ok := spans[[2]int{r, c}]; ok {
				for cc := c + 1; cc <= end && cc < len(widths); cc++ {
					w += widths[cc]
				}
			}
			text := values[r][c]
			if text == checkboxGlyph {
				text = "[ ]"
			}
			drawPDFCell(pdf, x, y, w, cell.Style, tr(text))
			x += w
		}
		pdf.SetXY(pdfMargin, y+pdfRowHeight)
	}
}

func drawPDFCell(pdf *gofpdf.Fpdf, x, y, w float64, st Style, text string) {
	style := ""
	if st.Bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, pdfFontSize)

	fill := st.Fill != ""
	if fill {
		r, g, b := hexRGB(st.Fill)
		pdf.SetFillColor(r, g, b)
	}

	pdf.SetXY(x, y)
	pdf.SetLineWidth(pdfThinLine)
	pdf.CellFormat(w, pdfRowHeight, text, "", 0, "C", fill, 0, "")

	sides := []struct {
		weight         Weight
		x1, y1, x2, y2 float64
	}{
		{st.Border.Top, x, y, x + w, y},
		{st.Border.Bottom, x, y + pdfRowHeight, x + w, y + pdfRowHeight},
		{st.Border.Left, x, y, x, y + pdfRowHeight},
		{st.Border.Right, x + w, y, x + w, y + pdfRowHeight},
	}
	for _, side := range sides {
		if side.weight == WeightNone {
			continue
		}
		lw := pdfThinLine
		if side.weight == WeightMedium {
			lw = pdfMediumLine
		}
		pdf.SetLineWidth(lw)
		pdf.Line(side.x1, side.y1, side.x2, side.y2)
	}
}

// pdfColumnWidths converts spreadsheet column widths to millimetres,
// shrinking them to fit the printable width.
func pdfColumnWidths(s *Sheet, available float64) []float64 {
	n := s.Width()
	units := make([]float64, n)
	total := 0.0
	for c := range units {
		units[c] = pdfDefaultWidth
		if c < len(s.ColWidths) {
			units[c] = s.ColWidths[c]
		}
		total += units[c]
	}

	scale := pdfUnitWidth
	if total*scale > available {
		scale = available / total
	}
	for c := range units {
		units[c] *= scale
	}
	return units
}

// mergeSpans maps the top-left cell of every single-row merge to its last
// column and marks the cells it covers.
func mergeSpans(s *Sheet) (map[[2]int]int, map[[2]int]bool) {
	spans := make(map[[2]int]int)
	covered := make(map[[2]int]bool)
	for _, m := range s.Merges {
		spans[[2]int{m.StartRow, m.StartCol}] = m.EndCol
		for r := m.StartRow; r <= m.EndRow; r++ {
			for c := m.StartCol; c <= m.EndCol; c++ {
				if r == m.StartRow && c == m.StartCol {
					continue
				}
				covered[[2]int{r, c}] = true
			}
		}
	}
	return spans, covered
}

func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
