package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCodePayload(t *testing.T) {
	data := VerificationCodePayload("John Doe", "123456", 10)

	assert.Equal(t, "John Doe", data["NAME"])
	assert.Equal(t, "123456", data["CODE"])
	assert.Equal(t, 10, data["MINUTES"])
}

func TestLoginAlertPayload(t *testing.T) {
	data := LoginAlertPayload("Jane Doe", "2026-08-30T12:00:00Z", "203.0.113.7")

	assert.Equal(t, "Jane Doe", data["NAME"])
	assert.Equal(t, "2026-08-30T12:00:00Z", data["TIME"])
	assert.Equal(t, "203.0.113.7", data["IP"])
}

func TestSendMailRejectsEmptyRecipient(t *testing.T) {
	m := NewResendMailer("test-key", "no-reply@example.com")

	err := m.SendMail("", TemplateLoginAlert, nil)
	assert.Error(t, err)
}
