package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginDecodesClaims(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "ana@acme.cl" {
			t.Fatalf("unexpected email %q", body["email"])
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":7,"email":"ana@acme.cl","rol":"admin","cliente_id":3,"empresa":"ACME"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Login(context.Background(), "ana@acme.cl", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "tok-1" || result.User.CompanyName != "ACME" || result.User.Role != "admin" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLoginMissingTokenIsShapeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":7,"email":"ana@acme.cl"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "ana@acme.cl", "secret")
	if err == nil {
		t.Fatalf("expected error")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if !IsShapeMismatch(err) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestLoginRejectedIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "credenciales invalidas", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "ana@acme.cl", "bad")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !fe.Unauthorized() {
		t.Fatalf("expected unauthorized, got status %d", fe.Status)
	}
	if fe.Retryable() {
		t.Fatalf("401 must not be retryable")
	}
}

func TestGuidesQueryOmitsEmptyFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guias" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("missing bearer token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("sucursal") != "Santiago" || q.Get("desde") != "2025-07-01" {
			t.Fatalf("unexpected query %v", q)
		}
		if _, ok := q["servicio"]; ok {
			t.Fatalf("empty servicio must be omitted")
		}
		_, _ = w.Write([]byte(`{"page":1,"total":1,"guias":[{"id":1,"guia":1001,"fecha":"2025-07-03","sucursal":"Santiago","servicio":"Retiro","frecuencia":"Semanal","lts_limite":"1000","lts_retirados":850,"valor_servicio":"45000","valor_lt_adic":120,"patente":"AB-CD-12","total":"47400"}]}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL).Guides(context.Background(), "tok-1", GuideQuery{
		Page:   1,
		Limit:  100,
		Desde:  "2025-07-01",
		Hasta:  "2025-07-31",
		Branch: "Santiago",
	})
	if err != nil {
		t.Fatalf("guides: %v", err)
	}
	if len(page.Guides) != 1 {
		t.Fatalf("expected 1 guide, got %d", len(page.Guides))
	}
	guide := page.Guides[0]
	if guide.Total.Float() != 47400 {
		t.Fatalf("string amount not decoded, got %v", guide.Total)
	}
	if guide.Date.Year() != 2025 || guide.Date.Month() != 7 {
		t.Fatalf("bare date not decoded, got %v", guide.Date)
	}
}

func TestGuidesMissingArrayIsShapeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"total":0}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Guides(context.Background(), "tok", GuideQuery{})
	if !IsShapeMismatch(err) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestInvoiceBranchesDropsBlanksAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/facturas/sucursales" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`["Temuco","","Antofagasta","  "]`))
	}))
	defer srv.Close()

	branches, err := NewClient(srv.URL).InvoiceBranches(context.Background(), "tok")
	if err != nil {
		t.Fatalf("branches: %v", err)
	}
	if len(branches) != 2 || branches[0] != "Antofagasta" || branches[1] != "Temuco" {
		t.Fatalf("unexpected branches %v", branches)
	}
}

func TestDashboardResumenEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("desde") == "" || q.Get("hasta") == "" {
			t.Fatalf("expected month bounds, got %v", q)
		}
		_, _ = w.Write([]byte(`{"resumen":{"cantidad_guias":12,"cantidad_facturas":4,"monto_guias":"380000","monto_facturas":95000,"cantidad_sucursales":3,"promedio_monto_guias":31666.6,"promedio_monto_facturas":23750}}`))
	}))
	defer srv.Close()

	resumen, err := NewClient(srv.URL).DashboardResumen(context.Background(), "tok", ResumenQuery{Desde: "2025-07-01", Hasta: "2025-07-31"})
	if err != nil {
		t.Fatalf("resumen: %v", err)
	}
	if resumen.CantidadGuias != 12 || resumen.MontoGuias.Float() != 380000 {
		t.Fatalf("unexpected resumen %+v", resumen)
	}
}

func TestDashboardResumenMissingEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).DashboardResumen(context.Background(), "tok", ResumenQuery{})
	if !IsShapeMismatch(err) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestDeleteAccountSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/usuarios/9" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).DeleteAccount(context.Background(), "tok", 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
