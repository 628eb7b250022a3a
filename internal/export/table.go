// Package export serialises tabular working sets into downloadable
// artifacts. Every encoder preserves column order and row order and emits a
// valid header-only artifact for an empty dataset; guarding "nothing to
// export" is the calling handler's precondition, not the engine's.
package export

import (
	"fmt"
	"strconv"
)

// Table is a self-contained export request: column labels, rows and the
// filename stem the artifact will carry. Built fresh per export from the
// current filtered working set and never mutated afterwards.
type Table struct {
	Headers  []string
	Rows     [][]any
	Filename string
}

// NewTable validates that every row matches the header arity.
func NewTable(filename string, headers []string, rows [][]any) (Table, error) {
	for i, row := range rows {
		if len(row) != len(headers) {
			return Table{}, fmt.Errorf("export: row %d has %d cells, want %d", i, len(row), len(headers))
		}
	}
	return Table{Headers: headers, Rows: rows, Filename: filename}, nil
}

// Format selects one of the supported artifact encodings.
type Format string

const (
	// FormatCSV is UTF-8 comma-separated text with RFC 4180 quoting.
	FormatCSV Format = "csv"
	// FormatXLS is the legacy tab-separated text that spreadsheet
	// applications import through their delimiter heuristics.
	FormatXLS Format = "xls"
	// FormatXLSX is a real binary workbook.
	FormatXLSX Format = "xlsx"
	// FormatPDF is the printable document rendering.
	FormatPDF Format = "pdf"
)

// ParseFormat maps a query-string value onto a Format. The SPA historically
// sent "excel" for the tab-separated artifact.
func ParseFormat(raw string) (Format, error) {
	switch raw {
	case "csv":
		return FormatCSV, nil
	case "xls", "excel":
		return FormatXLS, nil
	case "xlsx":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("export: unsupported format %q", raw)
}

// ContentType returns the MIME type declared on the download response.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLS:
		return "application/vnd.ms-excel; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Extension returns the artifact filename extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

func cellString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
