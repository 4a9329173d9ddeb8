package domain

import (
	"regexp"
	"strings"
	"time"

	"faceauth/pkg/embedding"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Account is one registrant. Exactly one embedding is bound to an account
// for its lifetime, and a verified account never carries a pending
// verification code.
type Account struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHash   string
	EmbeddingBytes []byte
	PhotoURL       string
	Verified       bool
	CodeHash       *string
	CodeExpiresAt  *time.Time
	CreatedAt      time.Time
	LastLoginAt    *time.Time
}

func (a *Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) < MinNameLength || len(a.Name) > MaxNameLength {
		return ErrInvalidName
	}

	if a.Email == "" {
		return ErrInvalidEmail
	}

	if !emailRegex.MatchString(a.Email) {
		return ErrInvalidEmailFormat
	}

	if len(a.EmbeddingBytes) == 0 {
		return ErrMissingFaceImage
	}

	return nil
}

// SetEmbedding binds the face vector to the account in its serialized
// byte form.
func (a *Account) SetEmbedding(v embedding.Vector) {
	a.EmbeddingBytes = embedding.Encode(v)
}

// EmbeddingVector decodes the stored bytes back into a vector.
func (a *Account) EmbeddingVector() (embedding.Vector, error) {
	return embedding.Decode(a.EmbeddingBytes)
}

// HasPendingCode reports whether a verification is in flight.
func (a *Account) HasPendingCode() bool {
	return a.CodeHash != nil && a.CodeExpiresAt != nil
}

// NormalizeEmail lower-cases and trims an email for use as the account
// identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPassword checks the password policy: minimum length always, and
// mixed case plus a digit when the strict policy is on.
func IsValidPassword(password string, strict bool) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	if !strict {
		return true
	}

	var (
		hasLower = false
		hasUpper = false
		hasDigit = false
	)

	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasDigit = true
		}
	}

	return hasLower && hasUpper && hasDigit
}
