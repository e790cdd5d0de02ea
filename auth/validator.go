package auth

import (
	"chat-api/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ValidateRegister rejects registrations with a missing field or a
// malformed email address.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.ErrMissingRegisterFields
	}
	return nil
}

// ValidateLogin rejects logins with an empty email or password.
func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.ErrMissingLoginFields
	}
	return nil
}
