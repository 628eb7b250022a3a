package guides

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/platform/httpx"
	"github.com/logisamb/portal/internal/shared"
)

// Handler exposes the guide listing over HTTP.
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

// MountRoutes registers guide routes on the provided router. The caller
// is expected to have applied the session gate already.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/guias", h.handleList)
	r.Get("/api/guias/opciones", h.handleOptions)
	r.Get("/api/guias/export", h.handleExport)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	listing, ok := h.fetch(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, listing)
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	options, err := h.service.backend.GuideFilterOptions(r.Context(), sess.Token())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, options)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("formato"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Formato desconocido", err.Error())
		return
	}
	filter, err := ParseFilter(r.URL.Query(), h.now())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Fechas inválidas", "Usa el formato AAAA-MM-DD.")
		return
	}
	filter.Page = 1
	filter.PerPage = exportPageSize
	sess := shared.SessionFromContext(r.Context())
	listing, err := h.service.List(r.Context(), sess.Token(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	table, err := ExportTable(listing.Guides, filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := export.Serve(w, r, h.logger, h.pdf, table, format); err != nil {
		h.logger.Error("export guides", slog.Any("error", err))
	}
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) (Listing, bool) {
	filter, err := ParseFilter(r.URL.Query(), h.now())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Fechas inválidas", "Usa el formato AAAA-MM-DD.")
		return Listing{}, false
	}
	sess := shared.SessionFromContext(r.Context())
	listing, err := h.service.List(r.Context(), sess.Token(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return Listing{}, false
	}
	return listing, true
}
