package domain

import (
	"testing"

	"faceauth/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount() *Account {
	a := &Account{
		Name:  "John Doe",
		Email: "john.doe@example.com",
	}
	a.SetEmbedding(embedding.Vector{0.6, 0.8})
	return a
}

func TestAccountValidate(t *testing.T) {
	assert.NoError(t, validAccount().Validate())

	short := validAccount()
	short.Name = "J"
	assert.ErrorIs(t, short.Validate(), ErrInvalidName)

	padded := validAccount()
	padded.Name = "  J  "
	assert.ErrorIs(t, padded.Validate(), ErrInvalidName)

	noEmail := validAccount()
	noEmail.Email = ""
	assert.ErrorIs(t, noEmail.Validate(), ErrInvalidEmail)

	badEmail := validAccount()
	badEmail.Email = "not-an-email"
	assert.ErrorIs(t, badEmail.Validate(), ErrInvalidEmailFormat)

	noFace := validAccount()
	noFace.EmbeddingBytes = nil
	assert.ErrorIs(t, noFace.Validate(), ErrMissingFaceImage)
}

func TestEmbeddingRoundTrip(t *testing.T) {
	a := &Account{}
	v := embedding.Vector{0.1, -0.2, 0.3}
	a.SetEmbedding(v)

	decoded, err := a.EmbeddingVector()
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.CoM "))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	require.Len(t, code, CodeLength)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
}
