package mailer

import (
	"fmt"

	"faceauth/pkg/logger"

	"github.com/resend/resend-go/v3"
)

type resendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey string, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (r *resendMailer) SendMail(to string, id string, data map[string]any) error {
	if to == "" {
		return fmt.Errorf("mailer: empty recipient for template %s", id)
	}

	_, err := r.client.Emails.Send(&resend.SendEmailRequest{
		From: r.from,
		To:   []string{to},
		Template: &resend.EmailTemplate{
			Id:        id,
			Variables: data,
		},
	})
	if err != nil {
		return fmt.Errorf("mailer: send %s to %s: %w", id, to, err)
	}

	return nil
}

// SendMailAsync delivers in a goroutine. Failures are logged and
// swallowed; callers that need delivery confirmation use SendMail.
func (r *resendMailer) SendMailAsync(to string, id string, data map[string]any, operationName string) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in email goroutine", "operation", operationName, "panic", rec)
			}
		}()

		if err := r.SendMail(to, id, data); err != nil {
			logger.Error("Failed to send email", "operation", operationName, "error", err)
		}
	}()
}
