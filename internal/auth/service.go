// Package auth implements the portal login flow and the session gate
// applied to every protected route.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
)

// Backend is the slice of the upstream client the login flow needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (upstream.LoginResult, error)
}

// Service authenticates portal users against the upstream backend.
type Service struct {
	backend Backend
}

// NewService constructs a Service.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Authenticate verifies credentials upstream and returns the bearer token
// plus the identity claims decoded from the login response.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, shared.Identity, error) {
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		var fe *upstream.FetchError
		if errors.As(err, &fe) && fe.Unauthorized() {
			return "", shared.Identity{}, shared.ErrInvalidCredentials
		}
		return "", shared.Identity{}, fmt.Errorf("auth: login: %w", err)
	}
	identity := shared.Identity{
		UserID:      res.User.ID,
		Email:       res.User.Email,
		Role:        res.User.Role,
		CompanyID:   res.User.CompanyID,
		CompanyName: res.User.CompanyName,
	}
	return res.Token, identity, nil
}
