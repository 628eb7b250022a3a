package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/logisamb/portal/internal/auth"
	"github.com/logisamb/portal/internal/dashboard"
	"github.com/logisamb/portal/internal/guides"
	"github.com/logisamb/portal/internal/invoices"
	"github.com/logisamb/portal/internal/observability"
	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/users"
	"github.com/logisamb/portal/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	GuidesHandler    *guides.Handler
	InvoicesHandler  *invoices.Handler
	UsersHandler     *users.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with portal defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	r.Group(func(gr chi.Router) {
		gr.Use(auth.RequireUser)
		if params.DashboardHandler != nil {
			params.DashboardHandler.MountRoutes(gr)
		}
		if params.GuidesHandler != nil {
			params.GuidesHandler.MountRoutes(gr)
		}
		if params.InvoicesHandler != nil {
			params.InvoicesHandler.MountRoutes(gr)
		}
	})

	// The user directory is admin territory; the backend re-checks the
	// role on every call, this gate just keeps the surface clean.
	r.Group(func(gr chi.Router) {
		gr.Use(auth.RequireAdmin)
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(gr)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
