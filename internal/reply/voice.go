package reply

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/twilio"
)

const (
	sayNoResponse    = "I did not hear a response. Thank you for your time. Goodbye."
	sayInterested    = "Great! A representative will follow up with you shortly. Thank you!"
	sayNotInterested = "I understand. Thank you for your time. Have a great day!"
	sayAskLater      = "No problem. We will reach out to you at a better time. Thank you!"
	sayUnsubscribe   = "Understood. We will remove you from our contact list. Goodbye."
	sayFollowUp      = "Thank you for your response. Someone will get back to you soon."
	sayError         = "An error occurred. Goodbye."
)

// errorTwiML is served when even the error response cannot be rendered.
const errorTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response><Say voice="Polly.Joanna">` +
	sayError + `</Say><Hangup/></Response>`

// Voice answers a caller's spoken reply. The returned TwiML always ends the
// call; classification failures produce a spoken apology instead of an error.
func (h *Handler) Voice(ctx context.Context, speech, callSID string) string {
	if speech == "" {
		return speak(sayNoResponse)
	}

	analysis, err := h.classifier.ClassifyReply(ctx, originalCall, speech, "Call SID: "+callSID)
	if err != nil {
		zap.L().Error("reply: classify call response",
			zap.String("call_sid", callSID),
			zap.Error(err),
		)
		return speak(sayError)
	}
	logAnalysis("call", callSID, analysis)

	return speak(VoiceLine(analysis))
}

// VoiceLine is what we say back for a classified reply.
func VoiceLine(a *model.ReplyAnalysis) string {
	switch a.Intent {
	case model.IntentInterested:
		return sayInterested
	case model.IntentNotInterested:
		return sayNotInterested
	case model.IntentAskLater:
		return sayAskLater
	case model.IntentUnsubscribe:
		return sayUnsubscribe
	}
	if a.SuggestedReply != "" {
		return a.SuggestedReply
	}
	return sayFollowUp
}

func speak(text string) string {
	doc, err := twilio.Render(twilio.Say(text), twilio.Hangup())
	if err != nil {
		zap.L().Error("reply: render twiml", zap.Error(err))
		return errorTwiML
	}
	return doc
}
