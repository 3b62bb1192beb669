package notify

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/resend/resend-go/v2"
)

// Email publishes notifications as transactional emails via Resend.
type Email struct {
	client *resend.Client
	from   string
	to     string
}

func NewEmail(apiKey, from, to string) *Email {
	return &Email{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (e *Email) Publish(ctx context.Context, subject, message string) error {
	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{e.to},
		Subject: subject,
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">%s</h2>
				<p style="white-space: pre-wrap;">%s</p>
			</div>
		`, html.EscapeString(subject), html.EscapeString(message)),
	}

	sent, err := e.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Notification email sent (ID: %s)", sent.Id)
	return nil
}
