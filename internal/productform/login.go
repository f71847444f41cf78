// ABOUTME: Login form validation
// ABOUTME: Shares the validator and messages with the product form

package productform

import (
	"strings"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// Login are the raw login form inputs.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// ParseLogin validates the login form. The password is not trimmed.
func ParseLogin(l Login) (domain.Credentials, error) {
	l.Email = strings.TrimSpace(l.Email)
	if err := validate.Struct(l); err != nil {
		return domain.Credentials{}, toValidationError(err)
	}
	return domain.Credentials{Email: l.Email, Password: l.Password}, nil
}
