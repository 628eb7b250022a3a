package upstream

import (
	"context"
	"fmt"
	"net/http"
)

// Company is a client company selectable when creating a user account.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// AccountPayload is the write shape for user create/update calls. Password is
// optional on update; empty fields are dropped from the JSON body.
type AccountPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	Role        string `json:"rol"`
	CompanyID   int64  `json:"cliente_id"`
	CompanyName string `json:"empresa"`
}

// ListAccounts returns the full user directory.
func (c *Client) ListAccounts(ctx context.Context, token string) ([]Account, error) {
	var accounts []Account
	if err := c.do(ctx, "list accounts", http.MethodGet, "/usuarios", token, nil, nil, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		return nil, shapeErr("list accounts", "usuarios array missing")
	}
	return accounts, nil
}

// CreateAccount creates a user and returns the stored record.
func (c *Client) CreateAccount(ctx context.Context, token string, payload AccountPayload) (Account, error) {
	var account Account
	if err := c.do(ctx, "create account", http.MethodPost, "/usuarios", token, nil, payload, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// UpdateAccount updates a user and returns the stored record.
func (c *Client) UpdateAccount(ctx context.Context, token string, id int64, payload AccountPayload) (Account, error) {
	var account Account
	path := fmt.Sprintf("/usuarios/%d", id)
	if err := c.do(ctx, "update account", http.MethodPut, path, token, nil, payload, &account); err != nil {
		return Account{}, err
	}
	return account, nil
}

// DeleteAccount removes a user.
func (c *Client) DeleteAccount(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/usuarios/%d", id)
	return c.do(ctx, "delete account", http.MethodDelete, path, token, nil, nil, nil)
}

// Companies lists the client companies for the account form selector.
func (c *Client) Companies(ctx context.Context, token string) ([]Company, error) {
	var companies []Company
	if err := c.do(ctx, "list companies", http.MethodGet, "/clientes", token, nil, nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}
