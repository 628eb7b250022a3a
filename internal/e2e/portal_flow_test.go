package e2e

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/logisamb/portal/internal/app"
	"github.com/logisamb/portal/internal/auth"
	"github.com/logisamb/portal/internal/dashboard"
	"github.com/logisamb/portal/internal/guides"
	"github.com/logisamb/portal/internal/invoices"
	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
	"github.com/logisamb/portal/internal/users"
	_ "github.com/logisamb/portal/internal/testing/guard"
)

// fakeLogisamb imitates the slice of the remote backend the flows below
// touch.
func fakeLogisamb(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secreto123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		role := shared.RoleClient
		if strings.HasPrefix(body.Email, "admin") {
			role = shared.RoleAdmin
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-e2e",
			"user": map[string]any{
				"id": 1, "email": body.Email, "rol": role,
				"cliente_id": 21, "empresa": "Clínica Alemana",
			},
		})
	})
	mux.HandleFunc("GET /guias", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"total":2,"guias":[
			{"id":1,"guia":84521,"fecha":"2025-07-05","sucursal":"Temuco Centro","servicio":"Retiro","frecuencia":"Semanal","lts_limite":100,"lts_retirados":"120","valor_servicio":30000,"valor_lt_adic":250,"patente":"ABCD-12","total":"35000"},
			{"id":2,"guia":84522,"fecha":"2025-07-12","sucursal":"Labranza","servicio":"Retiro","frecuencia":"Semanal","lts_limite":100,"lts_retirados":80,"valor_servicio":30000,"valor_lt_adic":250,"patente":"ABCD-12","total":30000}
		]}`))
	})
	mux.HandleFunc("GET /guias/opciones", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sucursales":["Labranza","Temuco Centro"],"servicios":["Retiro"],"frecuencias":["Semanal"]}`))
	})
	mux.HandleFunc("GET /facturas", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"total":1,"facturas":[
			{"id":9,"fecha":"2025-05-10","sucursal":"Temuco Centro","dias_mora":95,"nro_factura":"F-001","monto_factura":"125000","estado_mora":"Crítica"}
		]}`))
	})
	mux.HandleFunc("GET /facturas/sucursales", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["Temuco Centro"]`))
	})
	mux.HandleFunc("GET /dashboard/resumen", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resumen":{"cantidad_guias":2,"cantidad_facturas":1,"monto_guias":65000,"monto_facturas":125000,"cantidad_sucursales":2,"promedio_monto_guias":32500,"promedio_monto_facturas":125000}}`))
	})
	mux.HandleFunc("GET /usuarios", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"email":"admin@logisamb.cl","rol":"admin","cliente_id":0,"empresa":""}]`))
	})
	mux.HandleFunc("POST /usuarios", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		payload["id"] = 2
		delete(payload, "password")
		_ = json.NewEncoder(w).Encode(payload)
	})
	return httptest.NewServer(mux)
}

func newPortal(t *testing.T, backendURL string) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &app.Config{AppEnv: "test", AppRequestTimeout: 10 * time.Second}

	sessionManager := shared.NewSessionManager(redisClient, "portal_session", "e2e-secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("e2e-csrf")
	backend := upstream.NewClient(backendURL)

	return app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      auth.NewHandler(logger, auth.NewService(backend), sessionManager, csrfManager),
		DashboardHandler: dashboard.NewHandler(logger, dashboard.NewService(backend, dashboard.NewCache(redisClient, time.Minute), redisClient)),
		GuidesHandler:    guides.NewHandler(logger, guides.NewService(backend), nil),
		InvoicesHandler:  invoices.NewHandler(logger, invoices.NewService(backend), nil),
		UsersHandler:     users.NewHandler(logger, users.NewService(backend), nil),
	})
}

type loginResult struct {
	cookie *http.Cookie
	csrf   string
}

func login(t *testing.T, portal http.Handler, email string) loginResult {
	t.Helper()
	body := strings.NewReader(`{"email":"` + email + `","password":"secreto123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	rec := httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		CSRFToken string `json:"csrf_token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "portal_session" && c.Value != "" {
			return loginResult{cookie: c, csrf: resp.CSRFToken}
		}
	}
	t.Fatal("session cookie missing after login")
	return loginResult{}
}

func TestClientJourney(t *testing.T) {
	backend := fakeLogisamb(t)
	defer backend.Close()
	portal := newPortal(t, backend.URL)

	sess := login(t, portal, "cliente@alemana.cl")

	// Dashboard metrics.
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/resumen", nil)
	req.AddCookie(sess.cookie)
	rec := httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"cantidad_guias":2`) {
		t.Fatalf("resumen = %d %s", rec.Code, rec.Body.String())
	}

	// Guide listing with aggregates.
	req = httptest.NewRequest(http.MethodGet, "/api/guias?desde=2025-07-01&hasta=2025-07-31", nil)
	req.AddCookie(sess.cookie)
	rec = httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("guias = %d %s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"cantidad_guias":2`, `"total_facturado":65000`, `"sucursales_activas":2`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("guias body missing %s: %s", want, rec.Body.String())
		}
	}

	// CSV download.
	req = httptest.NewRequest(http.MethodGet, "/api/guias/export?formato=csv&desde=2025-07-01&hasta=2025-07-31", nil)
	req.AddCookie(sess.cookie)
	rec = httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Guias_Retiro_julio_2025_2_registros.csv") {
		t.Fatalf("disposition = %q", got)
	}

	// Invoice listing with aging bucket.
	req = httptest.NewRequest(http.MethodGet, "/api/facturas", nil)
	req.AddCookie(sess.cookie)
	rec = httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"criticas":1`) {
		t.Fatalf("facturas = %d %s", rec.Code, rec.Body.String())
	}

	// The admin surface stays closed to clients.
	req = httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
	req.AddCookie(sess.cookie)
	rec = httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("usuarios as cliente = %d, want 403", rec.Code)
	}
}

func TestAdminJourneyWithCSRF(t *testing.T) {
	backend := fakeLogisamb(t)
	defer backend.Close()
	portal := newPortal(t, backend.URL)

	sess := login(t, portal, "admin@logisamb.cl")

	// Mutations without the CSRF header are rejected.
	body := `{"email":"nuevo@alemana.cl","password":"secreto1","rol":"cliente","cliente_id":21,"empresa":"Clínica Alemana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/usuarios", strings.NewReader(body))
	req.AddCookie(sess.cookie)
	rec := httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create without csrf = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/usuarios", strings.NewReader(body))
	req.AddCookie(sess.cookie)
	req.Header.Set(shared.CSRFHeader, sess.csrf)
	rec = httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
	req.AddCookie(sess.cookie)
	rec = httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "admin@logisamb.cl") {
		t.Fatalf("usuarios = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	backend := fakeLogisamb(t)
	defer backend.Close()
	portal := newPortal(t, backend.URL)

	rec := httptest.NewRecorder()
	portal.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}
