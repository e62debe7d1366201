// Package channel delivers generated copy over SMS, voice and email. Senders
// never return Go errors: every failure is reported in model.SendResult.
package channel

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

const (
	errNoPhone = "No phone number provided"
	errNoEmail = "No email address provided"
)

// Breaker names, one per provider channel.
const (
	BreakerSMS   = "sms"
	BreakerCall  = "call"
	BreakerEmail = "email"
)

// guard runs send through cb and folds the outcome into a SendResult. An open
// circuit fails without calling the provider.
func guard(ctx context.Context, cb *resilience.CircuitBreaker, ch model.Channel, fallback string, send func(ctx context.Context) (string, error)) model.SendResult {
	var (
		id  string
		err error
	)
	if cb == nil {
		id, err = send(ctx)
	} else {
		id, err = resilience.ExecuteVal(ctx, cb, send)
	}

	if err != nil {
		msg := errorMessage(err, fallback)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			msg = string(ch) + " provider unavailable: " + err.Error()
		}
		zap.L().Warn("channel: send failed",
			zap.String("channel", string(ch)),
			zap.Error(err),
		)
		return model.SendResult{Error: msg}
	}
	return model.SendResult{Success: true, ID: id}
}

func errorMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
