package users

import (
	"fmt"
	"strconv"
	"time"

	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

var exportHeaders = []string{"ID", "Email", "Rol", "Empresa"}

// ExportTable shapes the visible directory rows into an export table.
func ExportTable(rows []upstream.Account, now time.Time) (export.Table, error) {
	if len(rows) == 0 {
		return export.Table{}, shared.ErrNothingToExport
	}
	filename := fmt.Sprintf("usuarios_%s", shared.ISODate(now))

	cells := make([][]any, 0, len(rows))
	for _, a := range rows {
		cells = append(cells, []any{
			strconv.FormatInt(a.ID, 10),
			a.Email,
			a.Role,
			a.CompanyName,
		})
	}
	return export.NewTable(filename, exportHeaders, cells)
}
