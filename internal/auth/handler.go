package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/logisamb/portal/internal/platform/httpx"
	"github.com/logisamb/portal/internal/shared"
)

// Handler wires HTTP endpoints for the login, logout and session flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. Credential
// attempts get a much tighter per-IP limit than the rest of the surface.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/api/session", h.handleSession)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User      shared.Identity `json:"user"`
	CSRFToken string          `json:"csrf_token,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Solicitud inválida", "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	token, identity, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Every failure mode reads the same to the caller so the response
		// never reveals whether the account exists.
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Warn("login rejected", slog.String("email", req.Email))
		} else {
			h.logger.Error("login backend failure", slog.String("email", req.Email), slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusUnauthorized, "Credenciales inválidas", "Verifica tus credenciales")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Error interno", "")
		return
	}
	sess.Login(token, identity)
	csrfToken, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Warn("issue csrf token", slog.Any("error", err))
	}

	h.logger.Info("login ok", slog.String("email", identity.Email), slog.String("rol", identity.Role))
	httpx.JSON(w, http.StatusOK, sessionResponse{User: identity, CSRFToken: csrfToken})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	h.sessionManager.Destroy(sess)
	httpx.JSON(w, http.StatusNoContent, nil)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || !sess.Authenticated() {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	httpx.JSON(w, http.StatusOK, sessionResponse{User: *sess.Identity(), CSRFToken: csrfToken})
}
