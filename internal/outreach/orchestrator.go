// Package outreach decides, per contact, whether and how to reach out, and
// runs campaigns over a contact list.
package outreach

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/agent"
	"github.com/sells-group/outreach-cli/internal/model"
)

// Blocking reasons reported in OutreachResult.Error.
const (
	ErrDoNotContact    = "Contact marked as Do Not Contact"
	ErrOutsideHours    = "Outside business hours for contact timezone"
	ErrNoContactMethod = "No valid contact method available"
)

const emailSentMessage = "Email sent"

// Generator produces outreach copy.
type Generator interface {
	GenerateMessage(ctx context.Context, p agent.MessageParams) (string, error)
	GenerateCallScript(ctx context.Context, p agent.MessageParams) (*model.CallScript, error)
}

// MessageSender delivers a text message (SMS or email).
type MessageSender interface {
	Send(ctx context.Context, c model.Contact, message string) model.SendResult
}

// CallSender places a scripted voice call.
type CallSender interface {
	Call(ctx context.Context, c model.Contact, script *model.CallScript) model.SendResult
}

// Senders groups the per-channel senders. A nil sender fails its channel.
type Senders struct {
	SMS   MessageSender
	Call  CallSender
	Email MessageSender
}

// Orchestrator runs the per-contact decision: do-not-contact, business hours,
// channel selection, generation and delivery.
type Orchestrator struct {
	gen     Generator
	senders Senders
	now     func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the clock used by the business-hours gate.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(gen Generator, senders Senders, opts ...Option) *Orchestrator {
	o := &Orchestrator{gen: gen, senders: senders, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute reaches out to one contact. It never returns an error: policy
// blocks and delivery failures are recorded in the result.
func (o *Orchestrator) Execute(ctx context.Context, c model.Contact, cfg model.OutreachConfig) (res model.OutreachResult) {
	channel := model.ChannelNone

	defer func() {
		if r := recover(); r != nil {
			res = o.failure(c, channel, fmt.Sprint(r))
		}
		res.Timestamp = o.now()
		logResult(res)
	}()

	if cfg.RespectDoNotContact && c.Status == model.ContactStatusDoNotContact {
		return o.failure(c, model.ChannelNone, ErrDoNotContact)
	}

	if cfg.RespectTimezones && c.TimeZone != "" && !IsWithinBusinessHours(c.TimeZone, o.now()) {
		return o.failure(c, model.ChannelNone, ErrOutsideHours)
	}

	channel = SelectChannel(c)
	if channel == model.ChannelNone {
		return o.failure(c, channel, ErrNoContactMethod)
	}

	params := agent.MessageParams{
		Contact:  c,
		Template: FillTemplate(cfg.Template, c),
		Tone:     cfg.Tone,
		Language: cfg.Language,
		Channel:  channel,
	}

	switch channel {
	case model.ChannelCall:
		return o.call(ctx, c, params)
	default:
		return o.message(ctx, c, params)
	}
}

func (o *Orchestrator) message(ctx context.Context, c model.Contact, p agent.MessageParams) model.OutreachResult {
	sender := o.senders.SMS
	if p.Channel == model.ChannelEmail {
		sender = o.senders.Email
	}
	if sender == nil {
		return o.failure(c, p.Channel, fmt.Sprintf("%s sender not configured", p.Channel))
	}

	text, err := o.gen.GenerateMessage(ctx, p)
	if err != nil {
		return o.failure(c, p.Channel, err.Error())
	}

	sent := sender.Send(ctx, c, text)
	res := model.OutreachResult{
		ContactName: c.FullName,
		Channel:     p.Channel,
		Success:     sent.Success,
		Error:       sent.Error,
	}
	if sent.Success {
		res.Message = text
		if p.Channel == model.ChannelEmail {
			res.Message = emailSentMessage
		}
	}
	return res
}

func (o *Orchestrator) call(ctx context.Context, c model.Contact, p agent.MessageParams) model.OutreachResult {
	if o.senders.Call == nil {
		return o.failure(c, p.Channel, fmt.Sprintf("%s sender not configured", p.Channel))
	}

	script, err := o.gen.GenerateCallScript(ctx, p)
	if err != nil {
		return o.failure(c, p.Channel, err.Error())
	}

	sent := o.senders.Call.Call(ctx, c, script)
	res := model.OutreachResult{
		ContactName: c.FullName,
		Channel:     p.Channel,
		Success:     sent.Success,
		Error:       sent.Error,
	}
	if sent.Success {
		res.Message = "Call initiated: " + sent.ID
	}
	return res
}

func (o *Orchestrator) failure(c model.Contact, ch model.Channel, msg string) model.OutreachResult {
	return model.OutreachResult{
		ContactName: c.FullName,
		Channel:     ch,
		Error:       msg,
	}
}

func logResult(res model.OutreachResult) {
	fields := []zap.Field{
		zap.String("contact", res.ContactName),
		zap.String("channel", string(res.Channel)),
		zap.Bool("success", res.Success),
	}
	if res.Success {
		zap.L().Info("outreach: delivered", fields...)
		return
	}
	zap.L().Warn("outreach: not delivered", append(fields, zap.String("reason", res.Error))...)
}
