package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

type stubBackend struct {
	accounts  []upstream.Account
	companies []upstream.Company
	created   *upstream.AccountPayload
	updatedID int64
	deletedID int64
	err       error
}

func (s *stubBackend) ListAccounts(context.Context, string) ([]upstream.Account, error) {
	return s.accounts, s.err
}

func (s *stubBackend) CreateAccount(_ context.Context, _ string, p upstream.AccountPayload) (upstream.Account, error) {
	s.created = &p
	return upstream.Account{ID: 99, Email: p.Email, Role: p.Role, CompanyID: p.CompanyID, CompanyName: p.CompanyName}, s.err
}

func (s *stubBackend) UpdateAccount(_ context.Context, _ string, id int64, p upstream.AccountPayload) (upstream.Account, error) {
	s.updatedID = id
	return upstream.Account{ID: id, Email: p.Email, Role: p.Role}, s.err
}

func (s *stubBackend) DeleteAccount(_ context.Context, _ string, id int64) error {
	s.deletedID = id
	return s.err
}

func (s *stubBackend) Companies(context.Context, string) ([]upstream.Company, error) {
	return s.companies, s.err
}

func account(id int64, email, role string, companyID int64) upstream.Account {
	return upstream.Account{ID: id, Email: email, Role: role, CompanyID: companyID}
}

func directory() []upstream.Account {
	return []upstream.Account{
		account(1, "ana@alemana.cl", shared.RoleClient, 21),
		account(2, "bruno@alemana.cl", shared.RoleClient, 21),
		account(3, "soporte@logisamb.cl", shared.RoleAdmin, 0),
		account(4, "carla@araucania.cl", shared.RoleClient, 34),
	}
}

func TestListEmailFragmentCaseInsensitive(t *testing.T) {
	svc := NewService(&stubBackend{accounts: directory()})

	listing, err := svc.List(context.Background(), "tok", Filter{Email: "ALEMANA"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listing.Users) != 2 {
		t.Fatalf("visible = %d, want 2", len(listing.Users))
	}
}

func TestListRoleFilterAndStats(t *testing.T) {
	svc := NewService(&stubBackend{accounts: directory()})

	listing, err := svc.List(context.Background(), "tok", Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	stats := listing.Stats
	if stats.Total != 4 || stats.Clients != 3 || stats.Admins != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Companies != 2 {
		t.Fatalf("empresas = %d, want 2 distinct", stats.Companies)
	}

	admins, err := svc.List(context.Background(), "tok", Filter{Role: shared.RoleAdmin})
	if err != nil {
		t.Fatalf("List admins: %v", err)
	}
	if len(admins.Users) != 1 || admins.Users[0].Email != "soporte@logisamb.cl" {
		t.Fatalf("admins = %+v", admins.Users)
	}
}

func TestUpdateKeepsPasswordWhenBlank(t *testing.T) {
	backend := &stubBackend{}
	svc := NewService(backend)

	form := AccountForm{Email: "ana@alemana.cl", Role: shared.RoleClient, CompanyID: 21, CompanyName: "Clínica Alemana"}
	if _, err := svc.Update(context.Background(), "tok", 1, form); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if backend.updatedID != 1 {
		t.Fatalf("updated id = %d", backend.updatedID)
	}
}

func TestListPropagatesBackendError(t *testing.T) {
	svc := NewService(&stubBackend{err: errors.New("boom")})
	if _, err := svc.List(context.Background(), "tok", Filter{}); err == nil {
		t.Fatal("expected backend error")
	}
}

func TestExportTable(t *testing.T) {
	now := time.Date(2025, 7, 18, 9, 0, 0, 0, time.UTC)
	table, err := ExportTable(directory(), now)
	if err != nil {
		t.Fatalf("ExportTable: %v", err)
	}
	if table.Filename != "usuarios_2025-07-18" {
		t.Fatalf("filename = %q", table.Filename)
	}
	if len(table.Rows) != 4 || table.Rows[0][1] != "ana@alemana.cl" {
		t.Fatalf("rows = %+v", table.Rows)
	}
}

func TestExportTableEmpty(t *testing.T) {
	if _, err := ExportTable(nil, time.Now()); !errors.Is(err, shared.ErrNothingToExport) {
		t.Fatalf("err = %v, want ErrNothingToExport", err)
	}
}
