// Package reply classifies inbound replies and answers them.
package reply

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Classifier labels a reply to one of our messages.
type Classifier interface {
	ClassifyReply(ctx context.Context, original, reply, replyContext string) (*model.ReplyAnalysis, error)
}

// Descriptions of the outbound message a reply answers.
const (
	originalCall  = "Initial outreach call"
	originalSMS   = "SMS outreach message"
	originalEmail = "Email outreach message"
)

// Handler turns inbound replies into classifications and spoken responses.
type Handler struct {
	classifier Classifier
}

// NewHandler creates a Handler.
func NewHandler(c Classifier) *Handler {
	return &Handler{classifier: c}
}

// SMS classifies a text reply.
func (h *Handler) SMS(ctx context.Context, msg model.InboundMessage) (*model.ReplyAnalysis, error) {
	zap.L().Info("reply: sms received",
		zap.String("from", msg.From),
		zap.String("message_sid", msg.MessageID),
	)

	analysis, err := h.classifier.ClassifyReply(ctx, originalSMS, msg.Body,
		fmt.Sprintf("From: %s, MessageSid: %s", msg.From, msg.MessageID))
	if err != nil {
		return nil, eris.Wrap(err, "reply: classify sms")
	}
	logAnalysis("sms", msg.From, analysis)
	return analysis, nil
}

// Email classifies a parsed email reply.
func (h *Handler) Email(ctx context.Context, msg model.InboundMessage) (*model.ReplyAnalysis, error) {
	analysis, err := h.classifier.ClassifyReply(ctx, originalEmail, msg.Body,
		fmt.Sprintf("From: %s, Subject: %s", msg.From, msg.Subject))
	if err != nil {
		return nil, eris.Wrap(err, "reply: classify email")
	}
	logAnalysis("email", msg.From, analysis)
	return analysis, nil
}

func logAnalysis(channel, from string, a *model.ReplyAnalysis) {
	zap.L().Info("reply: classified",
		zap.String("channel", channel),
		zap.String("from", from),
		zap.String("intent", string(a.Intent)),
		zap.Int("confidence", a.Confidence),
		zap.Bool("needs_escalation", a.NeedsEscalation),
	)
}
