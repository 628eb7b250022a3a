package upstream

import (
	"context"
	"net/http"
)

// Account mirrors the backend usuario resource. The same shape is returned by
// the login endpoint and the user administration endpoints.
type Account struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"rol"`
	CompanyID   int64  `json:"cliente_id"`
	CompanyName string `json:"empresa"`
}

// LoginResult carries the bearer token and its accompanying identity claims.
type LoginResult struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The backend verifies the
// password; the portal never sees or stores a hash. A 401 is returned as a
// FetchError with Unauthorized() == true so the caller can collapse every
// failure mode into one generic message.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, "login", http.MethodPost, "/login", "", nil, loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return LoginResult{}, err
	}
	if result.Token == "" {
		return LoginResult{}, shapeErr("login", "token missing")
	}
	if result.User.ID == 0 || result.User.Email == "" {
		return LoginResult{}, shapeErr("login", "user claims incomplete")
	}
	return result, nil
}
