package channel

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/twilio"
)

// SMSSender delivers text messages through Twilio.
type SMSSender struct {
	client  twilio.Client
	breaker *resilience.CircuitBreaker
}

// NewSMSSender creates an SMSSender. breaker may be nil.
func NewSMSSender(client twilio.Client, breaker *resilience.CircuitBreaker) *SMSSender {
	return &SMSSender{client: client, breaker: breaker}
}

// Send delivers message to the contact's phone number.
func (s *SMSSender) Send(ctx context.Context, c model.Contact, message string) model.SendResult {
	if !c.HasPhone() {
		return model.SendResult{Error: errNoPhone}
	}
	return guard(ctx, s.breaker, model.ChannelSMS, "Failed to send SMS", func(ctx context.Context) (string, error) {
		return s.client.SendSMS(ctx, c.PhoneNumber, message)
	})
}
