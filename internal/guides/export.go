package guides

import (
	"fmt"

	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

var exportHeaders = []string{
	"Guía", "Fecha", "Sucursal", "Servicio", "Frecuencia",
	"Lts Límite", "Lts Retirados", "Valor Servicio", "Valor Lt Adic.",
	"Patente", "Total",
}

// ExportTable shapes the visible guide rows into an export table. The
// filename carries the month of the range start and the row count.
func ExportTable(rows []upstream.Guide, filter Filter) (export.Table, error) {
	if len(rows) == 0 {
		return export.Table{}, shared.ErrNothingToExport
	}
	filename := fmt.Sprintf("Guias_Retiro_%s_%d_registros",
		shared.MonthFileLabel(filter.Desde), len(rows))

	cells := make([][]any, 0, len(rows))
	for _, g := range rows {
		cells = append(cells, []any{
			guideNumber(g),
			g.Date.Format("02/01/2006"),
			g.Branch,
			g.Service,
			g.Frequency,
			shared.FormatAmount(g.LitersLimit.Float()),
			shared.FormatAmount(g.LitersPicked.Float()),
			shared.FormatAmount(g.ServiceValue.Float()),
			shared.FormatAmount(g.ExtraLtValue.Float()),
			g.VehiclePlate,
			shared.FormatAmount(g.Total.Float()),
		})
	}
	return export.NewTable(filename, exportHeaders, cells)
}
