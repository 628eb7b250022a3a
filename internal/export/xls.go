package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteXLS emits the table as tab-separated lines under a spreadsheet MIME
// type, relying on the consuming application's tab-delimited import
// heuristics rather than a binary workbook format.
//
// Cell values are NOT escaped: a tab or newline inside a value will shift
// columns in the imported sheet. This mirrors the behaviour the portal has
// always had; WriteXLSX is the escaping-safe alternative.
func WriteXLS(w io.Writer, table Table) error {
	buffered := bufio.NewWriter(w)

	if _, err := buffered.WriteString(strings.Join(table.Headers, "\t")); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := buffered.WriteByte('\n'); err != nil {
			return err
		}
		for i, cell := range row {
			if i > 0 {
				if err := buffered.WriteByte('\t'); err != nil {
					return err
				}
			}
			if _, err := buffered.WriteString(cellString(cell)); err != nil {
				return err
			}
		}
	}
	return buffered.Flush()
}
