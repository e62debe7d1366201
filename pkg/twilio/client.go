// Package twilio provides SMS, voice call and message history access to the
// Twilio REST API.
package twilio

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	sdk "github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/time/rate"
)

// Client defines the Twilio operations used by the outreach senders and the
// reply tooling.
type Client interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	CreateCall(ctx context.Context, req CallRequest) (string, error)
	FetchCall(ctx context.Context, sid string) (*Call, error)
	RecordingURL(ctx context.Context, callSID string) (string, error)
	ListInbound(ctx context.Context, limit int) ([]Message, error)
}

// CallRequest describes an outbound call with inline TwiML.
type CallRequest struct {
	To                      string
	TwiML                   string
	MachineDetection        string
	MachineDetectionTimeout int
	Record                  bool
}

// Call is the subset of call state we report.
type Call struct {
	SID        string `json:"sid"`
	Status     string `json:"status"`
	Duration   int    `json:"duration"`
	AnsweredBy string `json:"answeredBy,omitempty"`
}

// Message is an SMS as stored by Twilio.
type Message struct {
	SID         string    `json:"sid"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Body        string    `json:"body"`
	DateCreated time.Time `json:"dateCreated"`
}

// recordingHost prefixes the relative recording URIs returned by the API.
const recordingHost = "https://api.twilio.com"

// api is the part of the generated v2010 service we call.
type api interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
	CreateCall(params *twilioApi.CreateCallParams) (*twilioApi.ApiV2010Call, error)
	FetchCall(sid string, params *twilioApi.FetchCallParams) (*twilioApi.ApiV2010Call, error)
	ListRecording(params *twilioApi.ListRecordingParams) ([]twilioApi.ApiV2010Recording, error)
	ListMessage(params *twilioApi.ListMessageParams) ([]twilioApi.ApiV2010Message, error)
}

// ClientOption configures the Twilio client.
type ClientOption func(*restClient)

// WithRateLimit caps REST calls per second. Twilio meters outbound calls at
// one per second by default.
func WithRateLimit(rps float64) ClientOption {
	return func(c *restClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// restClient wraps twilio-go. The SDK does not accept a context, so ctx only
// bounds the rate limiter wait.
type restClient struct {
	api     api
	from    string
	limiter *rate.Limiter
}

// NewClient creates a Client that sends from the given number.
func NewClient(accountSID, authToken, from string, opts ...ClientOption) Client {
	rc := sdk.NewRestClientWithParams(sdk.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newClient(rc.Api, from, opts...)
}

func newClient(a api, from string, opts ...ClientOption) *restClient {
	c := &restClient{api: a, from: from}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *restClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}
	return c.limiter.Wait(ctx)
}

func (c *restClient) SendSMS(ctx context.Context, to, body string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", eris.Wrap(err, "twilio: rate limit")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	msg, err := c.api.CreateMessage(params)
	if err != nil {
		return "", eris.Wrap(err, "twilio: create message")
	}
	return deref(msg.Sid), nil
}

func (c *restClient) CreateCall(ctx context.Context, req CallRequest) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", eris.Wrap(err, "twilio: rate limit")
	}

	params := &twilioApi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(c.from)
	params.SetTwiml(req.TwiML)
	if req.MachineDetection != "" {
		params.SetMachineDetection(req.MachineDetection)
		params.SetMachineDetectionTimeout(req.MachineDetectionTimeout)
	}
	params.SetRecord(req.Record)

	call, err := c.api.CreateCall(params)
	if err != nil {
		return "", eris.Wrap(err, "twilio: create call")
	}
	return deref(call.Sid), nil
}

func (c *restClient) FetchCall(ctx context.Context, sid string) (*Call, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "twilio: rate limit")
	}

	call, err := c.api.FetchCall(sid, &twilioApi.FetchCallParams{})
	if err != nil {
		return nil, eris.Wrapf(err, "twilio: fetch call %s", sid)
	}

	duration, _ := strconv.Atoi(deref(call.Duration))
	return &Call{
		SID:        sid,
		Status:     deref(call.Status),
		Duration:   duration,
		AnsweredBy: deref(call.AnsweredBy),
	}, nil
}

// RecordingURL returns the MP3 URL of the call's first recording, or "" when
// the call has none.
func (c *restClient) RecordingURL(ctx context.Context, callSID string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", eris.Wrap(err, "twilio: rate limit")
	}

	params := &twilioApi.ListRecordingParams{}
	params.SetCallSid(callSID)
	params.SetLimit(1)

	recs, err := c.api.ListRecording(params)
	if err != nil {
		return "", eris.Wrapf(err, "twilio: list recordings for %s", callSID)
	}
	if len(recs) == 0 || deref(recs[0].Uri) == "" {
		return "", nil
	}
	return recordingHost + strings.Replace(deref(recs[0].Uri), ".json", ".mp3", 1), nil
}

// ListInbound returns recent messages sent to our number.
func (c *restClient) ListInbound(ctx context.Context, limit int) ([]Message, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "twilio: rate limit")
	}

	params := &twilioApi.ListMessageParams{}
	params.SetTo(c.from)
	params.SetLimit(limit)

	msgs, err := c.api.ListMessage(params)
	if err != nil {
		return nil, eris.Wrap(err, "twilio: list messages")
	}

	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{
			SID:         deref(m.Sid),
			From:        deref(m.From),
			To:          deref(m.To),
			Body:        deref(m.Body),
			DateCreated: parseDate(deref(m.DateCreated)),
		})
	}
	return out, nil
}

// parseDate reads the RFC 1123 timestamps used by the v2010 API.
func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC1123Z, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
