package model

import "time"

// Channel is the concrete delivery mechanism chosen for one contact.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelCall  Channel = "Call"
	ChannelEmail Channel = "Email"
	ChannelNone  Channel = "None"
)

// Tone selects the voice of generated copy.
type Tone string

const (
	ToneSales    Tone = "sales"
	ToneSupport  Tone = "support"
	ToneReminder Tone = "reminder"
	ToneFollowUp Tone = "follow-up"
)

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	switch t {
	case ToneSales, ToneSupport, ToneReminder, ToneFollowUp:
		return true
	default:
		return false
	}
}

// OutreachConfig is the per-campaign configuration shared by every contact.
type OutreachConfig struct {
	Template            string `json:"template" yaml:"template"`
	Tone                Tone   `json:"tone" yaml:"tone"`
	Language            string `json:"language" yaml:"language"`
	RespectTimezones    bool   `json:"respectTimezones" yaml:"respect_timezones"`
	RespectDoNotContact bool   `json:"respectDoNotContact" yaml:"respect_do_not_contact"`
}

// OutreachResult records what happened for one contact in one campaign run.
type OutreachResult struct {
	ContactName string    `json:"contactName"`
	Channel     Channel   `json:"channel"`
	Success     bool      `json:"success"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// CallScript is the structured script spoken on an outbound call.
type CallScript struct {
	Greeting          string            `json:"greeting"`
	MainPitch         string            `json:"mainPitch"`
	ObjectionHandlers map[string]string `json:"objectionHandlers"`
	Closing           string            `json:"closing"`
}

// SendResult is the uniform outcome of a channel delivery attempt.
type SendResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}
