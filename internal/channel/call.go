package channel

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/twilio"
)

const (
	machineDetection        = "DetectMessageEnd"
	machineDetectionTimeout = 5

	// ResponsePath receives the caller's spoken answer.
	ResponsePath = "/api/call-response"

	gatherPrompt = "If you are interested, please say yes. Otherwise, say no or not interested."
)

// CallSender places voice calls that read a generated script.
type CallSender struct {
	client    twilio.Client
	breaker   *resilience.CircuitBreaker
	actionURL string
}

// NewCallSender creates a CallSender. baseURL is the public address of the
// server handling speech responses; empty means a relative action path.
func NewCallSender(client twilio.Client, breaker *resilience.CircuitBreaker, baseURL string) *CallSender {
	return &CallSender{
		client:    client,
		breaker:   breaker,
		actionURL: baseURL + ResponsePath,
	}
}

// Call dials the contact and plays script. The result ID is the call SID.
func (s *CallSender) Call(ctx context.Context, c model.Contact, script *model.CallScript) model.SendResult {
	if !c.HasPhone() {
		return model.SendResult{Error: errNoPhone}
	}

	doc, err := ScriptTwiML(script, s.actionURL)
	if err != nil {
		return model.SendResult{Error: err.Error()}
	}

	return guard(ctx, s.breaker, model.ChannelCall, "Failed to make call", func(ctx context.Context) (string, error) {
		return s.client.CreateCall(ctx, twilio.CallRequest{
			To:                      c.PhoneNumber,
			TwiML:                   doc,
			MachineDetection:        machineDetection,
			MachineDetectionTimeout: machineDetectionTimeout,
			Record:                  true,
		})
	})
}

// ScriptTwiML renders the spoken flow of a call: greeting, pitch, a speech
// prompt posting to action, then the closing.
func ScriptTwiML(script *model.CallScript, action string) (string, error) {
	if action == "" {
		action = ResponsePath
	}
	return twilio.Render(
		twilio.SayLocalized(script.Greeting),
		twilio.Pause(),
		twilio.SayLocalized(script.MainPitch),
		twilio.Pause(),
		twilio.GatherSpeech(action, twilio.Say(gatherPrompt)),
		twilio.SayLocalized(script.Closing),
	)
}
