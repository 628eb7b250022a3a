// Package users implements the admin-only user directory: listing,
// account maintenance and export.
package users

import (
	"github.com/logisamb/portal/internal/upstream"
)

// AccountForm is the single validated contract behind both the create and
// edit flows. Password is only mandatory when creating.
type AccountForm struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password"`
	Role        string `json:"rol" validate:"required,oneof=admin cliente"`
	CompanyID   int64  `json:"cliente_id" validate:"required,gt=0"`
	CompanyName string `json:"empresa" validate:"required"`
}

func (f AccountForm) payload() upstream.AccountPayload {
	return upstream.AccountPayload{
		Email:       f.Email,
		Password:    f.Password,
		Role:        f.Role,
		CompanyID:   f.CompanyID,
		CompanyName: f.CompanyName,
	}
}

// Stats summarises the visible directory rows.
type Stats struct {
	Total     int `json:"total"`
	Clients   int `json:"clientes"`
	Admins    int `json:"admins"`
	Companies int `json:"empresas"`
}

// Listing is the complete payload behind the administration view.
type Listing struct {
	Users []upstream.Account `json:"usuarios"`
	Stats Stats              `json:"resumen"`
}
