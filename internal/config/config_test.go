package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 0.5, cfg.Auth.FaceMatchThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CodeExpiry)
	assert.Equal(t, 5, cfg.Auth.MaxSignupAttempts)
	assert.Equal(t, time.Hour, cfg.Auth.SignupAttemptWindow)
	assert.Equal(t, 10*time.Second, cfg.Recognizer.Timeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("AUTH_FACE_MATCH_THRESHOLD", "0.35")
	t.Setenv("AUTH_MAX_SIGNUP_ATTEMPTS", "3")
	t.Setenv("RECOGNIZER_URL", "http://recognizer:9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.35, cfg.Auth.FaceMatchThreshold)
	assert.Equal(t, 3, cfg.Auth.MaxSignupAttempts)
	assert.Equal(t, "http://recognizer:9090", cfg.Recognizer.URL)
}

func TestLoadRequiresEncryptionKey(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
