package channel

import (
	"context"

	"github.com/mailgun/mailgun-go/v5"
	"github.com/rotisserie/eris"
)

// MailgunMailer sends email through the Mailgun HTTP API. Mailgun renders
// the plain text part; the HTML alternative is only sent over SMTP.
type MailgunMailer struct {
	send func(ctx context.Context, e Email) (string, error)
}

// NewMailgunMailer creates a MailgunMailer for a sending domain.
func NewMailgunMailer(apiKey, domain string) *MailgunMailer {
	mg := mailgun.NewMailgun(apiKey)
	return &MailgunMailer{
		send: func(ctx context.Context, e Email) (string, error) {
			msg := mailgun.NewMessage(domain, e.From, e.Subject, e.Text, e.To)
			resp, err := mg.Send(ctx, msg)
			if err != nil {
				return "", err
			}
			return resp.ID, nil
		},
	}
}

// Send delivers e and returns Mailgun's message ID.
func (m *MailgunMailer) Send(ctx context.Context, e Email) (string, error) {
	id, err := m.send(ctx, e)
	if err != nil {
		return "", eris.Wrap(err, "mailgun: send")
	}
	return id, nil
}
