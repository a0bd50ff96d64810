package ferrarini

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the first sheet as comma-separated text with formulas
// replaced by their values.
func (wb *Workbook) WriteCSV(w io.Writer) error {
	sheets, err := wb.flatten()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(sheets[0]); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
