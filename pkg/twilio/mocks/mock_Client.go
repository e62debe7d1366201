// Package mocks provides test doubles for the twilio client.
package mocks

import (
	"context"

	twilio "github.com/sells-group/outreach-cli/pkg/twilio"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SendSMS provides a mock function with given fields: ctx, to, body
func (_m *MockClient) SendSMS(ctx context.Context, to string, body string) (string, error) {
	ret := _m.Called(ctx, to, body)

	if len(ret) == 0 {
		panic("no return value specified for SendSMS")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (string, error)); ok {
		return rf(ctx, to, body)
	}
	return ret.String(0), ret.Error(1)
}

// CreateCall provides a mock function with given fields: ctx, req
func (_m *MockClient) CreateCall(ctx context.Context, req twilio.CallRequest) (string, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for CreateCall")
	}

	if rf, ok := ret.Get(0).(func(context.Context, twilio.CallRequest) (string, error)); ok {
		return rf(ctx, req)
	}
	return ret.String(0), ret.Error(1)
}

// FetchCall provides a mock function with given fields: ctx, sid
func (_m *MockClient) FetchCall(ctx context.Context, sid string) (*twilio.Call, error) {
	ret := _m.Called(ctx, sid)

	if len(ret) == 0 {
		panic("no return value specified for FetchCall")
	}

	var r0 *twilio.Call
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*twilio.Call)
	}
	return r0, ret.Error(1)
}

// RecordingURL provides a mock function with given fields: ctx, callSID
func (_m *MockClient) RecordingURL(ctx context.Context, callSID string) (string, error) {
	ret := _m.Called(ctx, callSID)

	if len(ret) == 0 {
		panic("no return value specified for RecordingURL")
	}

	return ret.String(0), ret.Error(1)
}

// ListInbound provides a mock function with given fields: ctx, limit
func (_m *MockClient) ListInbound(ctx context.Context, limit int) ([]twilio.Message, error) {
	ret := _m.Called(ctx, limit)

	if len(ret) == 0 {
		panic("no return value specified for ListInbound")
	}

	var r0 []twilio.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]twilio.Message)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
