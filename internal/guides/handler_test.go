package guides

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

func newTestRouter(t *testing.T, backend *stubBackend) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(backend), nil)
	h.now = func() time.Time { return time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := shared.NewAuthenticatedSession("tok", shared.Identity{
				UserID: 1, Email: "cliente@alemana.cl", Role: shared.RoleClient,
			})
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	h.MountRoutes(r)
	return r
}

func TestHandleListJSON(t *testing.T) {
	backend := &stubBackend{
		page: upstream.GuidesPage{Guides: []upstream.Guide{
			guide(1, 5, "Temuco Centro", 120, 1000),
		}},
	}
	router := newTestRouter(t, backend)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guias", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"cantidad_guias":1`, `"sucursal":"Temuco Centro"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %s missing %s", body, want)
		}
	}
}

func TestHandleExportCSV(t *testing.T) {
	backend := &stubBackend{
		page: upstream.GuidesPage{Guides: []upstream.Guide{
			guide(84521, 18, "Temuco Centro", 120, 45000),
		}},
	}
	router := newTestRouter(t, backend)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guias/export?formato=csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "Guias_Retiro_julio_2025_1_registros.csv") {
		t.Fatalf("disposition = %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "Guía,Fecha,") {
		t.Fatalf("csv body = %q", rec.Body.String())
	}
}

func TestHandleExportEmptyDataset(t *testing.T) {
	router := newTestRouter(t, &stubBackend{page: upstream.GuidesPage{Guides: []upstream.Guide{}}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guias/export?formato=csv", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHandleExportUnknownFormat(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guias/export?formato=docx", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleListBadDate(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guias?desde=ayer", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
