package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Datos"

// WriteXLSX emits the table as a real binary workbook. Unlike WriteXLS this
// is safe for cell values containing tabs or newlines.
func WriteXLSX(w io.Writer, table Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}

	header := make([]any, len(table.Headers))
	for i, label := range table.Headers {
		header[i] = label
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row coordinates: %w", err)
		}
		values := make([]any, len(row))
		copy(values, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
