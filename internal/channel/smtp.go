package channel

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer sends email over SMTP with opportunistic STARTTLS.
type SMTPMailer struct {
	cfg    SMTPConfig
	domain string
}

// NewSMTPMailer creates an SMTPMailer. Message IDs are generated under the
// host's domain.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, domain: cfg.Host}
}

// Send dials the server, delivers e and disconnects.
func (m *SMTPMailer) Send(ctx context.Context, e Email) (string, error) {
	msg, id, err := m.build(e)
	if err != nil {
		return "", err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return "", eris.Wrap(err, "smtp: new client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", eris.Wrap(err, "smtp: send")
	}
	return id, nil
}

func (m *SMTPMailer) build(e Email) (*mail.Msg, string, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.From); err != nil {
		return nil, "", eris.Wrap(err, "smtp: from address")
	}
	if err := msg.To(e.To); err != nil {
		return nil, "", eris.Wrap(err, "smtp: to address")
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextPlain, e.Text)
	if e.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, e.HTML)
	}

	id := uuid.NewString() + "@" + m.domain
	msg.SetMessageIDWithValue(id)
	return msg, "<" + id + ">", nil
}
