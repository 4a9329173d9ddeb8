package mailer

const (
	TemplateVerificationCode = "verification-code"
	TemplateLoginAlert       = "login-alert"
)

type Mailer interface {
	SendMail(to string, id string, data map[string]any) error
	SendMailAsync(to string, id string, data map[string]any, operationName string)
}

// VerificationCodePayload fills the verification-code template. The code
// travels in plaintext here and only here; it is hashed before storage.
func VerificationCodePayload(name, code string, minutes int) map[string]any {
	return map[string]any{
		"NAME":    name,
		"CODE":    code,
		"MINUTES": minutes,
	}
}

// LoginAlertPayload fills the login-alert template.
func LoginAlertPayload(name, loginTime, ipAddress string) map[string]any {
	return map[string]any{
		"NAME": name,
		"TIME": loginTime,
		"IP":   ipAddress,
	}
}
