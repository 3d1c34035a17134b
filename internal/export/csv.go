// Package export serializes report result sets to download formats: CSV and
// a minimal single-sheet XLSX assembled without a spreadsheet library.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV streams a header row plus data rows. Quoting follows RFC 4180:
// fields containing commas, quotes or newlines are quoted with internal
// quotes doubled. Rows are written as they come, nothing is buffered.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
