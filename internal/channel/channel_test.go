package channel

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/twilio"
	"github.com/sells-group/outreach-cli/pkg/twilio/mocks"
)

func contact() model.Contact {
	return model.Contact{FullName: "Jane Doe", PhoneNumber: "+15551234567", Email: "jane@example.com"}
}

func TestSMSSender_Send(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("SendSMS", mock.Anything, "+15551234567", "hello").Return("SM1", nil)

	res := NewSMSSender(client, nil).Send(context.Background(), contact(), "hello")
	assert.Equal(t, model.SendResult{Success: true, ID: "SM1"}, res)
}

func TestSMSSender_NoPhone(t *testing.T) {
	client := mocks.NewMockClient(t)
	c := contact()
	c.PhoneNumber = ""

	res := NewSMSSender(client, nil).Send(context.Background(), c, "hello")
	assert.False(t, res.Success)
	assert.Equal(t, "No phone number provided", res.Error)
	client.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestSMSSender_ProviderError(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("invalid To number"))

	res := NewSMSSender(client, nil).Send(context.Background(), contact(), "hello")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid To number")
}

func TestSMSSender_OpenCircuitSkipsProvider(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("down")).Once()

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Hour})
	s := NewSMSSender(client, cb)

	first := s.Send(context.Background(), contact(), "a")
	assert.False(t, first.Success)

	second := s.Send(context.Background(), contact(), "b")
	assert.False(t, second.Success)
	assert.Equal(t, "SMS provider unavailable: circuit breaker is open", second.Error)
	client.AssertNumberOfCalls(t, "SendSMS", 1)
}

func script() *model.CallScript {
	return &model.CallScript{
		Greeting:  "Hi Jane",
		MainPitch: "We have an offer",
		Closing:   "Goodbye",
	}
}

func TestCallSender_Call(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("CreateCall", mock.Anything, mock.MatchedBy(func(req twilio.CallRequest) bool {
		return req.To == "+15551234567" &&
			req.MachineDetection == "DetectMessageEnd" &&
			req.MachineDetectionTimeout == 5 &&
			req.Record &&
			strings.Contains(req.TwiML, "Hi Jane") &&
			strings.Contains(req.TwiML, "https://example.com/api/call-response")
	})).Return("CA1", nil)

	res := NewCallSender(client, nil, "https://example.com").Call(context.Background(), contact(), script())
	assert.Equal(t, model.SendResult{Success: true, ID: "CA1"}, res)
}

func TestCallSender_NoPhone(t *testing.T) {
	client := mocks.NewMockClient(t)
	c := contact()
	c.PhoneNumber = ""

	res := NewCallSender(client, nil, "").Call(context.Background(), c, script())
	assert.Equal(t, "No phone number provided", res.Error)
}

func TestScriptTwiML_Order(t *testing.T) {
	doc, err := ScriptTwiML(script(), "")
	require.NoError(t, err)

	greeting := strings.Index(doc, "Hi Jane")
	pitch := strings.Index(doc, "We have an offer")
	gather := strings.Index(doc, "<Gather")
	closing := strings.Index(doc, "Goodbye")
	assert.True(t, greeting >= 0 && greeting < pitch && pitch < gather && gather < closing)
	assert.Contains(t, doc, `action="/api/call-response"`)
	assert.Contains(t, doc, "please say yes")
}

type fakeMailer struct {
	sent []Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, e Email) (string, error) {
	f.sent = append(f.sent, e)
	if f.err != nil {
		return "", f.err
	}
	return "<id@example.com>", nil
}

func TestEmailSender_Send(t *testing.T) {
	m := &fakeMailer{}
	res := NewEmailSender(m, "team@example.com", nil).
		Send(context.Background(), contact(), "Subject: Quick question\n\nHi Jane,\nThanks!")

	assert.Equal(t, model.SendResult{Success: true, ID: "<id@example.com>"}, res)
	require.Len(t, m.sent, 1)
	assert.Equal(t, Email{
		From:    "team@example.com",
		To:      "jane@example.com",
		Subject: "Quick question",
		Text:    "Hi Jane,\nThanks!",
		HTML:    "Hi Jane,<br>Thanks!",
	}, m.sent[0])
}

func TestEmailSender_NoEmail(t *testing.T) {
	m := &fakeMailer{}
	c := contact()
	c.Email = ""

	res := NewEmailSender(m, "x@example.com", nil).Send(context.Background(), c, "hi")
	assert.Equal(t, "No email address provided", res.Error)
	assert.Empty(t, m.sent)
}

func TestEmailSender_MailerError(t *testing.T) {
	m := &fakeMailer{err: errors.New("550 mailbox unavailable")}

	res := NewEmailSender(m, "x@example.com", nil).Send(context.Background(), contact(), "hi")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "550 mailbox unavailable")
}

func TestSplitSubject(t *testing.T) {
	tests := []struct {
		in, subject, body string
	}{
		{"Subject: Hello\n\nBody", "Hello", "Body"},
		{"SUBJECT:Hi there\nLine", "Hi there", "Line"},
		{"subject:   Spaced   \n\n\nBody\n", "Spaced", "Body"},
		{"No subject here\nBody", "Message for you", "No subject here\nBody"},
		{"Subject: Only", "Only", ""},
		{"", "Message for you", ""},
	}
	for _, tt := range tests {
		subject, body := SplitSubject(tt.in)
		assert.Equal(t, tt.subject, subject, tt.in)
		assert.Equal(t, tt.body, body, tt.in)
	}
}

func TestToHTML(t *testing.T) {
	assert.Equal(t, "a<br>b &amp; c", toHTML("a\nb & c"))
}

func TestSMTPMailer_Build(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	assert.Equal(t, 587, m.cfg.Port)

	msg, id, err := m.build(Email{
		From:    "team@example.com",
		To:      "jane@example.com",
		Subject: "Hello",
		Text:    "Plain body",
		HTML:    "Plain body<br>",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, "@smtp.example.com>"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Hello")
	assert.Contains(t, raw, "jane@example.com")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "Plain body")
	assert.Contains(t, raw, strings.Trim(id, "<>"))
}

func TestSMTPMailer_BadAddress(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	_, _, err := m.build(Email{From: "not an address", To: "jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp: from address")
}
