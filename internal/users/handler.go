package users

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/platform/httpx"
	"github.com/logisamb/portal/internal/shared"
)

// Handler exposes the user directory over HTTP. Every route here must be
// mounted behind the admin gate.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	pdf       *export.PDFExporter
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pdf *export.PDFExporter) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		pdf:       pdf,
		validator: validator.New(),
		now:       time.Now,
	}
}

// MountRoutes registers directory routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/usuarios", h.handleList)
	r.Post("/api/usuarios", h.handleCreate)
	r.Put("/api/usuarios/{id}", h.handleUpdate)
	r.Delete("/api/usuarios/{id}", h.handleDelete)
	r.Get("/api/usuarios/export", h.handleExport)
	r.Get("/api/clientes", h.handleCompanies)
}

func parseFilter(r *http.Request) Filter {
	return Filter{
		Email: r.URL.Query().Get("email"),
		Role:  r.URL.Query().Get("rol"),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	listing, err := h.service.List(r.Context(), sess.Token(), parseFilter(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listing)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request, requirePassword bool) (AccountForm, bool) {
	var form AccountForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Solicitud inválida", "")
		return AccountForm{}, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return AccountForm{}, false
	}
	if requirePassword {
		if err := h.validator.Var(form.Password, "required,min=6"); err != nil {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Datos inválidos",
				"La contraseña es obligatoria para cuentas nuevas.")
			return AccountForm{}, false
		}
	}
	return form, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r, true)
	if !ok {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	account, err := h.service.Create(r.Context(), sess.Token(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user created", slog.String("email", account.Email), slog.String("rol", account.Role))
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	form, ok := h.decodeForm(w, r, false)
	if !ok {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	account, err := h.service.Update(r.Context(), sess.Token(), id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if err := h.service.Delete(r.Context(), sess.Token(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user deleted", slog.Int64("id", id))
	httpx.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("formato"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Formato desconocido", err.Error())
		return
	}
	sess := shared.SessionFromContext(r.Context())
	listing, err := h.service.List(r.Context(), sess.Token(), parseFilter(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	table, err := ExportTable(listing.Users, h.now())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := export.Serve(w, r, h.logger, h.pdf, table, format); err != nil {
		h.logger.Error("export users", slog.Any("error", err))
	}
}

func (h *Handler) handleCompanies(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	companies, err := h.service.Companies(r.Context(), sess.Token())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, companies)
}
