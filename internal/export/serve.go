package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Serve writes the table as a file download in the requested format. When
// PDF is requested but no renderer is configured, the printable HTML
// document is served instead so the download still succeeds. Each download
// gets a correlation id so failed exports can be traced in the logs.
func Serve(w http.ResponseWriter, r *http.Request, logger *slog.Logger, pdf *PDFExporter, table Table, format Format) error {
	logger = logger.With(
		slog.String("export_id", uuid.NewString()),
		slog.String("archivo", table.Filename),
		slog.String("formato", string(format)),
	)
	logger.Info("export", slog.Int("filas", len(table.Rows)))

	if format == FormatPDF {
		return servePDF(w, r, logger, pdf, table)
	}

	setDisposition(w, table.Filename, format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	switch format {
	case FormatCSV:
		return WriteCSV(w, table)
	case FormatXLS:
		return WriteXLS(w, table)
	case FormatXLSX:
		return WriteXLSX(w, table)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

func servePDF(w http.ResponseWriter, r *http.Request, logger *slog.Logger, pdf *PDFExporter, table Table) error {
	if pdf != nil && pdf.Configured() {
		data, err := pdf.Render(r.Context(), table)
		if err == nil {
			setDisposition(w, table.Filename, FormatPDF.Extension())
			w.Header().Set("Content-Type", FormatPDF.ContentType())
			_, werr := w.Write(data)
			return werr
		}
		logger.Warn("pdf render failed, serving printable html", slog.Any("error", err))
	} else {
		logger.Info("pdf renderer not configured, serving printable html")
	}

	setDisposition(w, table.Filename, ".html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := fmt.Fprint(w, BuildDocumentHTML(table, time.Now()))
	return err
}

// setDisposition expects ext with its leading dot, as Format.Extension
// returns it.
func setDisposition(w http.ResponseWriter, filename, ext string) {
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s%s"`, filename, ext))
}
