package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type passwordPayload struct {
	Password string `validate:"strongpassword"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterPasswordValidation(v)
	return v
}

func TestValidateStrongPassword(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid mixed case with digit", "Password123", true},
		{"valid with symbols", "Sup3rSecret!", true},
		{"too short", "Pw1", false},
		{"missing uppercase", "password123", false},
		{"missing lowercase", "PASSWORD123", false},
		{"missing digit", "PasswordOnly", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(passwordPayload{Password: tt.password})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
