package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV emits the table as UTF-8 comma-separated text. encoding/csv
// applies RFC 4180 quoting: fields containing commas, quotes or newlines are
// wrapped in double quotes with internal quotes doubled.
func WriteCSV(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	record := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
