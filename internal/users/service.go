package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

// Backend is the slice of the upstream client the directory needs.
type Backend interface {
	ListAccounts(ctx context.Context, token string) ([]upstream.Account, error)
	CreateAccount(ctx context.Context, token string, payload upstream.AccountPayload) (upstream.Account, error)
	UpdateAccount(ctx context.Context, token string, id int64, payload upstream.AccountPayload) (upstream.Account, error)
	DeleteAccount(ctx context.Context, token string, id int64) error
	Companies(ctx context.Context, token string) ([]upstream.Company, error)
}

// Filter narrows the directory listing.
type Filter struct {
	Email string
	Role  string
}

// Matches reports whether an account satisfies the filter; the email
// fragment matches anywhere, case-insensitively.
func (f Filter) Matches(a upstream.Account) bool {
	if f.Email != "" && !strings.Contains(strings.ToLower(a.Email), strings.ToLower(f.Email)) {
		return false
	}
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	return true
}

// Service manages the user directory through the upstream backend.
type Service struct {
	backend Backend
}

// NewService constructs a Service.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// List fetches the directory and applies the filter locally; the backend
// exposes no query parameters on /usuarios.
func (s *Service) List(ctx context.Context, token string, filter Filter) (Listing, error) {
	accounts, err := s.backend.ListAccounts(ctx, token)
	if err != nil {
		return Listing{}, fmt.Errorf("users: list: %w", err)
	}
	visible := make([]upstream.Account, 0, len(accounts))
	for _, a := range accounts {
		if filter.Matches(a) {
			visible = append(visible, a)
		}
	}
	return Listing{Users: visible, Stats: Summarize(visible)}, nil
}

// Summarize computes the directory stats for a set of accounts.
func Summarize(accounts []upstream.Account) Stats {
	stats := Stats{Total: len(accounts)}
	companies := make(map[int64]struct{})
	for _, a := range accounts {
		switch a.Role {
		case shared.RoleAdmin:
			stats.Admins++
		case shared.RoleClient:
			stats.Clients++
		}
		if a.CompanyID > 0 {
			companies[a.CompanyID] = struct{}{}
		}
	}
	stats.Companies = len(companies)
	return stats
}

// Create stores a new account upstream.
func (s *Service) Create(ctx context.Context, token string, form AccountForm) (upstream.Account, error) {
	account, err := s.backend.CreateAccount(ctx, token, form.payload())
	if err != nil {
		return upstream.Account{}, fmt.Errorf("users: create: %w", err)
	}
	return account, nil
}

// Update modifies an existing account; an empty password leaves the
// stored one untouched.
func (s *Service) Update(ctx context.Context, token string, id int64, form AccountForm) (upstream.Account, error) {
	account, err := s.backend.UpdateAccount(ctx, token, id, form.payload())
	if err != nil {
		return upstream.Account{}, fmt.Errorf("users: update: %w", err)
	}
	return account, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, token string, id int64) error {
	if err := s.backend.DeleteAccount(ctx, token, id); err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return nil
}

// Companies lists the selectable client companies for the account form.
func (s *Service) Companies(ctx context.Context, token string) ([]upstream.Company, error) {
	companies, err := s.backend.Companies(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("users: companies: %w", err)
	}
	return companies, nil
}
