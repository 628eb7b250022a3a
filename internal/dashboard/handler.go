package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logisamb/portal/internal/platform/httpx"
	"github.com/logisamb/portal/internal/shared"
)

// Handler exposes the dashboard metrics over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	now     func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// MountRoutes registers dashboard routes on the provided router. The
// caller is expected to have applied the session gate already.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/dashboard/resumen", h.handleResumen)
	r.Post("/api/dashboard/refresh", h.handleRefresh)
}

func (h *Handler) handleResumen(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	// Explicit bounds keep cache keys stable across clients that omit them.
	month := shared.CurrentMonthRange(h.now())
	desde, hasta := shared.ISODate(month.Start), shared.ISODate(month.End)
	if raw := r.URL.Query().Get("desde"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Fechas inválidas", "Usa el formato AAAA-MM-DD.")
			return
		}
		desde = raw
	}
	if raw := r.URL.Query().Get("hasta"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Fechas inválidas", "Usa el formato AAAA-MM-DD.")
			return
		}
		hasta = raw
	}

	identity := shared.IdentityFromContext(r.Context())
	resumen, err := h.service.Resumen(r.Context(), sess.Token(), *identity, desde, hasta)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"resumen": resumen})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("dashboard cache refreshed")
	httpx.JSON(w, http.StatusNoContent, nil)
}
