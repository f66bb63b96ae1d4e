// Package mailer sends the signup verification codes.
package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers transactional mail. A nil SendgridMailer logs nothing and
// sends nothing, which keeps local development keyless.
type Mailer interface {
	SendOTP(toEmail, code string) error
}

// SendgridMailer implements Mailer on the SendGrid API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   string
}

// NewSendgridMailer creates a mailer; returns nil when no API key is set.
func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	if apiKey == "" {
		return nil
	}
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendgridMailer) SendOTP(toEmail, code string) error {
	if m == nil {
		return nil
	}

	from := mail.NewEmail("Outage Watch", m.from)
	to := mail.NewEmail("", toEmail)
	subject := "Your Outage Watch verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail provider rejected message with status %d", resp.StatusCode)
	}
	return nil
}
