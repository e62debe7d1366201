package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/reply"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

type fakeStreamer struct {
	contacts []model.Contact
	cfg      model.OutreachConfig
	events   []outreach.Event
}

func (f *fakeStreamer) Stream(_ context.Context, contacts []model.Contact, cfg model.OutreachConfig, emit func(outreach.Event)) error {
	f.contacts, f.cfg = contacts, cfg
	for _, ev := range f.events {
		emit(ev)
	}
	return nil
}

type fakeClassifier struct {
	analysis *model.ReplyAnalysis
	err      error
	reply    string
	context  string
}

func (f *fakeClassifier) ClassifyReply(_ context.Context, _, reply, replyContext string) (*model.ReplyAnalysis, error) {
	f.reply, f.context = reply, replyContext
	return f.analysis, f.err
}

var fixedNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestServer(st *fakeStreamer, fc *fakeClassifier) http.Handler {
	s := &server{
		runner:   st,
		replies:  reply.NewHandler(fc),
		breakers: resilience.NewBreakers(resilience.DefaultCircuitBreakerConfig()),
		defaults: model.OutreachConfig{
			Tone:                model.ToneSales,
			Language:            "English",
			RespectTimezones:    true,
			RespectDoNotContact: true,
		},
		maxUploadBytes: 1 << 20,
		now:            func() time.Time { return fixedNow },
	}
	return s.routes()
}

func interested() *model.ReplyAnalysis {
	return &model.ReplyAnalysis{Intent: model.IntentInterested, Confidence: 90}
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body struct {
		Status   string            `json:"status"`
		Circuits map[string]string `json:"circuits"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.NotNil(t, body.Circuits)
}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "x"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse-contacts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_ParseContacts(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{})
	csv := "Full Name,Phone Number,Email Address\n" +
		"Ada Lovelace,+1 555 010 0001,ADA@example.com\n" +
		"No Method,,\n" +
		"Ada Lovelace,+1 555 010 0001,ada@example.com\n"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, multipartUpload(t, "file", "contacts.csv", csv))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result model.ParseResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result.Valid, 1)
	assert.Equal(t, "Ada Lovelace", result.Valid[0].FullName)
	assert.Equal(t, "ada@example.com", result.Valid[0].Email)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, 3, result.Invalid[0].Row)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, 4, result.Duplicates[0].Row)
}

func TestServer_ParseContacts_NoFile(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, multipartUpload(t, "", "", ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No file provided")
}

func TestServer_LaunchCampaign_StreamsEvents(t *testing.T) {
	res := model.OutreachResult{ContactName: "Ada", Channel: model.ChannelSMS, Success: true, Message: "hi"}
	st := &fakeStreamer{events: []outreach.Event{
		{Status: "Starting campaign for 1 contacts..."},
		{Result: &res},
		{Status: "Campaign completed!", Completed: true},
	}}
	h := newTestServer(st, &fakeClassifier{})

	body := `{"contacts":[{"fullName":"Ada","phoneNumber":"+15550100001"}],` +
		`"config":{"template":"Hi {{name}}","respectTimezones":false}}`
	req := httptest.NewRequest(http.MethodPost, "/api/launch-campaign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))

	frames := strings.Split(strings.TrimSuffix(rr.Body.String(), "\n\n"), "\n\n")
	require.Len(t, frames, 3)
	for _, f := range frames {
		assert.True(t, strings.HasPrefix(f, "data: "), f)
	}

	var last outreach.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frames[2], "data: ")), &last))
	assert.True(t, last.Completed)

	require.Len(t, st.contacts, 1)
	assert.Equal(t, "Hi {{name}}", st.cfg.Template)
	assert.Equal(t, model.ToneSales, st.cfg.Tone)
	assert.Equal(t, "English", st.cfg.Language)
	assert.False(t, st.cfg.RespectTimezones)
	assert.True(t, st.cfg.RespectDoNotContact)
}

func TestServer_LaunchCampaign_BadRequests(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{`, "Invalid request body"},
		{"bad tone", `{"contacts":[{"fullName":"Ada"}],"config":{"template":"x","tone":"angry"}}`, "unknown tone"},
		{"no template", `{"contacts":[{"fullName":"Ada"}],"config":{}}`, "template is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/launch-campaign", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestServer_LaunchCampaign_EmptyContactsStreams(t *testing.T) {
	st := &fakeStreamer{events: []outreach.Event{{Error: "No contacts provided"}}}
	h := newTestServer(st, &fakeClassifier{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/launch-campaign", strings.NewReader(`{"contacts":[],"config":{}}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data: {"error":"No contacts provided"}`)
}

func TestServer_TwiML(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{})

	t.Run("missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/twiml", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Script parameter required")
	})

	t.Run("invalid", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/twiml?script=not-json", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid script format")
	})

	t.Run("valid", func(t *testing.T) {
		script := `{"greeting":"Hello Ada","mainPitch":"We have news","closing":"Bye now"}`
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/twiml?script="+url.QueryEscape(script), nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/xml", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "Hello Ada")
		assert.Contains(t, rr.Body.String(), "/api/call-response")
	})
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestServer_CallResponse(t *testing.T) {
	fc := &fakeClassifier{analysis: interested()}
	h := newTestServer(&fakeStreamer{}, fc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, formRequest("/api/call-response", url.Values{
		"SpeechResult": {"yes please"},
		"CallSid":      {"CA123"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/xml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "A representative will follow up")
	assert.Equal(t, "yes please", fc.reply)
	assert.Contains(t, fc.context, "CA123")
}

func TestServer_SMSReply(t *testing.T) {
	fc := &fakeClassifier{analysis: interested()}
	h := newTestServer(&fakeStreamer{}, fc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, formRequest("/api/webhooks/sms-reply", url.Values{
		"From":       {"+15550100001"},
		"Body":       {"Sounds good"},
		"MessageSid": {"SM1"},
	}))

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success  bool                `json:"success"`
		Analysis model.ReplyAnalysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, model.IntentInterested, body.Analysis.Intent)
	assert.Equal(t, "From: +15550100001, MessageSid: SM1", fc.context)
}

func TestServer_SMSReply_ClassifierError(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{err: errors.New("boom")})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, formRequest("/api/webhooks/sms-reply", url.Values{"Body": {"hi"}}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestServer_EmailReply(t *testing.T) {
	fc := &fakeClassifier{analysis: interested()}
	h := newTestServer(&fakeStreamer{}, fc)

	raw := "From: Ada <ada@example.com>\r\n" +
		"Subject: Re: Spring offer\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Yes, call me tomorrow.\r\n"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/webhooks/email-reply", strings.NewReader(raw)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Success  bool                 `json:"success"`
		Message  model.InboundMessage `json:"message"`
		Analysis model.ReplyAnalysis  `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ada@example.com", body.Message.From)
	assert.Equal(t, "Re: Spring offer", body.Message.Subject)
	assert.Equal(t, model.IntentInterested, body.Analysis.Intent)
	assert.Contains(t, fc.reply, "Yes, call me tomorrow.")
}

func TestServer_EmailReply_EmptyBody(t *testing.T) {
	h := newTestServer(&fakeStreamer{}, &fakeClassifier{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/webhooks/email-reply", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
