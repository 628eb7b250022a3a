package invoices

import (
	"fmt"
	"time"

	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/shared"
)

var exportHeaders = []string{
	"Nro Factura", "Fecha", "Sucursal", "Monto", "Días Mora", "Estado Mora",
}

// ExportTable shapes the visible invoice rows into an export table. The
// filename carries the export date and the row count.
func ExportTable(rows []Row, now time.Time) (export.Table, error) {
	if len(rows) == 0 {
		return export.Table{}, shared.ErrNothingToExport
	}
	filename := fmt.Sprintf("Facturas_Impagas_%s_%d_registros",
		shared.ISODate(now), len(rows))

	cells := make([][]any, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []any{
			r.Number,
			r.Date.Format("02/01/2006"),
			r.Branch,
			shared.FormatAmount(r.Amount.Float()),
			fmt.Sprintf("%d", r.DaysOverdue),
			r.MoraStatus,
		})
	}
	return export.NewTable(filename, exportHeaders, cells)
}
