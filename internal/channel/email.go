package channel

import (
	"context"
	"html"
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

const defaultSubject = "Message for you"

// Email is one outbound message handed to a Mailer.
type Email struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer is an email transport. It returns the provider's message ID.
type Mailer interface {
	Send(ctx context.Context, e Email) (string, error)
}

// EmailSender delivers generated email copy.
type EmailSender struct {
	mailer  Mailer
	from    string
	breaker *resilience.CircuitBreaker
}

// NewEmailSender creates an EmailSender. breaker may be nil.
func NewEmailSender(mailer Mailer, from string, breaker *resilience.CircuitBreaker) *EmailSender {
	return &EmailSender{mailer: mailer, from: from, breaker: breaker}
}

// Send delivers message to the contact's email address. A leading
// "Subject:" line becomes the subject.
func (s *EmailSender) Send(ctx context.Context, c model.Contact, message string) model.SendResult {
	if !c.HasEmail() {
		return model.SendResult{Error: errNoEmail}
	}

	subject, body := SplitSubject(message)
	e := Email{
		From:    s.from,
		To:      c.Email,
		Subject: subject,
		Text:    body,
		HTML:    toHTML(body),
	}

	return guard(ctx, s.breaker, model.ChannelEmail, "Failed to send email", func(ctx context.Context) (string, error) {
		return s.mailer.Send(ctx, e)
	})
}

// SplitSubject separates a "Subject: ..." first line (any case) from the
// body. Messages without one get the default subject and are left whole.
func SplitSubject(message string) (subject, body string) {
	first, rest, _ := strings.Cut(message, "\n")
	if len(first) >= len("subject:") && strings.EqualFold(first[:len("subject:")], "subject:") {
		return strings.TrimSpace(first[len("subject:"):]), strings.TrimSpace(rest)
	}
	return defaultSubject, message
}

func toHTML(body string) string {
	return strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
}
