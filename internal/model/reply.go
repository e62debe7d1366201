package model

import "time"

// Intent is the classified purpose of an inbound reply.
type Intent string

const (
	IntentInterested    Intent = "interested"
	IntentNotInterested Intent = "not_interested"
	IntentAskLater      Intent = "ask_later"
	IntentUnsubscribe   Intent = "unsubscribe"
	IntentQuestion      Intent = "question"
)

// Valid reports whether i is a known intent label.
func (i Intent) Valid() bool {
	switch i {
	case IntentInterested, IntentNotInterested, IntentAskLater, IntentUnsubscribe, IntentQuestion:
		return true
	default:
		return false
	}
}

// ReplyAnalysis is the classification of one inbound reply.
type ReplyAnalysis struct {
	Intent          Intent `json:"intent"`
	Confidence      int    `json:"confidence"`
	SuggestedReply  string `json:"suggestedReply,omitempty"`
	NeedsEscalation bool   `json:"needsEscalation"`
	Reasoning       string `json:"reasoning,omitempty"`
}

// InboundMessage is a reply received on any channel.
type InboundMessage struct {
	From      string    `json:"from"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	MessageID string    `json:"messageId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
