package invoices

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/platform/httpx"
	"github.com/logisamb/portal/internal/shared"
)

// Handler exposes the unpaid-invoice listing over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     *export.PDFExporter
	now     func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pdf *export.PDFExporter) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf, now: time.Now}
}

// MountRoutes registers invoice routes on the provided router. The caller
// is expected to have applied the session gate already.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/facturas", h.handleList)
	r.Get("/api/facturas/sucursales", h.handleBranches)
	r.Get("/api/facturas/export", h.handleExport)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	listing, err := h.service.List(r.Context(), sess.Token(), ParseFilter(r.URL.Query()))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listing)
}

func (h *Handler) handleBranches(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	branches, err := h.service.backend.InvoiceBranches(r.Context(), sess.Token())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, branches)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("formato"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Formato desconocido", err.Error())
		return
	}
	sess := shared.SessionFromContext(r.Context())
	listing, err := h.service.List(r.Context(), sess.Token(), ParseFilter(r.URL.Query()))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	table, err := ExportTable(listing.Invoices, h.now())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := export.Serve(w, r, h.logger, h.pdf, table, format); err != nil {
		h.logger.Error("export invoices", slog.Any("error", err))
	}
}
