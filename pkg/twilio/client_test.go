package twilio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func ptr[T any](v T) *T { return &v }

// fakeAPI records the params of the last call and returns canned responses.
type fakeAPI struct {
	message    *twilioApi.CreateMessageParams
	call       *twilioApi.CreateCallParams
	recordings *twilioApi.ListRecordingParams
	listing    *twilioApi.ListMessageParams

	fetched  *twilioApi.ApiV2010Call
	recs     []twilioApi.ApiV2010Recording
	messages []twilioApi.ApiV2010Message
	err      error
}

func (f *fakeAPI) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.message = p
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Message{Sid: ptr("SM123")}, nil
}

func (f *fakeAPI) CreateCall(p *twilioApi.CreateCallParams) (*twilioApi.ApiV2010Call, error) {
	f.call = p
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Call{Sid: ptr("CA123")}, nil
}

func (f *fakeAPI) FetchCall(_ string, _ *twilioApi.FetchCallParams) (*twilioApi.ApiV2010Call, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fetched, nil
}

func (f *fakeAPI) ListRecording(p *twilioApi.ListRecordingParams) ([]twilioApi.ApiV2010Recording, error) {
	f.recordings = p
	return f.recs, f.err
}

func (f *fakeAPI) ListMessage(p *twilioApi.ListMessageParams) ([]twilioApi.ApiV2010Message, error) {
	f.listing = p
	return f.messages, f.err
}

func TestSendSMS(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api, "+15550000000")

	sid, err := c.SendSMS(context.Background(), "+15551112222", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
	assert.Equal(t, "+15551112222", *api.message.To)
	assert.Equal(t, "+15550000000", *api.message.From)
	assert.Equal(t, "hello", *api.message.Body)
}

func TestSendSMS_Error(t *testing.T) {
	c := newClient(&fakeAPI{err: errors.New("invalid number")}, "+1")

	_, err := c.SendSMS(context.Background(), "x", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twilio: create message")
	assert.Contains(t, err.Error(), "invalid number")
}

func TestCreateCall(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api, "+15550000000")

	sid, err := c.CreateCall(context.Background(), CallRequest{
		To:                      "+15551112222",
		TwiML:                   "<Response/>",
		MachineDetection:        "DetectMessageEnd",
		MachineDetectionTimeout: 5,
		Record:                  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "CA123", sid)
	assert.Equal(t, "<Response/>", *api.call.Twiml)
	assert.Equal(t, "DetectMessageEnd", *api.call.MachineDetection)
	assert.Equal(t, 5, *api.call.MachineDetectionTimeout)
	assert.True(t, *api.call.Record)
}

func TestFetchCall(t *testing.T) {
	api := &fakeAPI{fetched: &twilioApi.ApiV2010Call{
		Status:     ptr("completed"),
		Duration:   ptr("42"),
		AnsweredBy: ptr("human"),
	}}
	c := newClient(api, "+1")

	call, err := c.FetchCall(context.Background(), "CA1")
	require.NoError(t, err)
	assert.Equal(t, &Call{SID: "CA1", Status: "completed", Duration: 42, AnsweredBy: "human"}, call)
}

func TestRecordingURL(t *testing.T) {
	api := &fakeAPI{recs: []twilioApi.ApiV2010Recording{
		{Uri: ptr("/2010-04-01/Accounts/AC1/Recordings/RE1.json")},
	}}
	c := newClient(api, "+1")

	url, err := c.RecordingURL(context.Background(), "CA1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.twilio.com/2010-04-01/Accounts/AC1/Recordings/RE1.mp3", url)
	assert.Equal(t, "CA1", *api.recordings.CallSid)
	assert.Equal(t, 1, *api.recordings.Limit)
}

func TestRecordingURL_None(t *testing.T) {
	c := newClient(&fakeAPI{}, "+1")

	url, err := c.RecordingURL(context.Background(), "CA1")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestListInbound(t *testing.T) {
	api := &fakeAPI{messages: []twilioApi.ApiV2010Message{{
		Sid:         ptr("SM9"),
		From:        ptr("+15551112222"),
		To:          ptr("+15550000000"),
		Body:        ptr("STOP"),
		DateCreated: ptr("Mon, 06 Jan 2025 15:04:05 +0000"),
	}}}
	c := newClient(api, "+15550000000")

	msgs, err := c.ListInbound(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "STOP", msgs[0].Body)
	assert.Equal(t, "+15551112222", msgs[0].From)
	assert.Equal(t, time.Date(2025, 1, 6, 15, 4, 5, 0, time.UTC), msgs[0].DateCreated.UTC())
	assert.Equal(t, "+15550000000", *api.listing.To)
	assert.Equal(t, 50, *api.listing.Limit)
}

func TestRateLimit_CancelledContext(t *testing.T) {
	c := newClient(&fakeAPI{}, "+1", WithRateLimit(0.001))
	ctx := context.Background()

	_, err := c.SendSMS(ctx, "x", "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = c.SendSMS(ctx, "x", "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twilio: rate limit")
}

func TestParseDate_Invalid(t *testing.T) {
	assert.True(t, parseDate("yesterday").IsZero())
}
