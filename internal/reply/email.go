package reply

import (
	"io"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// ParseEmail extracts the sender, subject, date and plain text body of a raw
// RFC 5322 message. Multipart messages contribute their first text/plain
// part, falling back to the first inline part. A missing date is now.
func ParseEmail(raw string, now time.Time) (*model.InboundMessage, error) {
	mr, err := mail.CreateReader(strings.NewReader(raw))
	if err != nil {
		return nil, eris.Wrap(err, "reply: read email")
	}
	defer mr.Close() //nolint:errcheck

	msg := &model.InboundMessage{Timestamp: now}

	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	} else {
		msg.From = strings.TrimSpace(mr.Header.Get("From"))
	}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		msg.Timestamp = date
	}
	if id, err := mr.Header.MessageID(); err == nil {
		msg.MessageID = id
	}

	var fallback string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "reply: read email part")
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			return nil, eris.Wrap(err, "reply: read email body")
		}

		ct, _, _ := h.ContentType()
		if ct == "" || ct == "text/plain" {
			msg.Body = strings.TrimSpace(string(body))
			return msg, nil
		}
		if fallback == "" {
			fallback = strings.TrimSpace(string(body))
		}
	}

	msg.Body = fallback
	return msg, nil
}
