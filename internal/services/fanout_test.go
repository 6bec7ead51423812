package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Name() string { return "mock" }

func (m *MockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestDeliverAttemptsEveryMessage(t *testing.T) {
	sender := new(MockEmailSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m EmailMessage) bool { return m.To == "b@example.com" })).
		Return(errors.New("mailbox full"))
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	messages := []EmailMessage{
		{To: "a@example.com", Subject: "s"},
		{To: "b@example.com", Subject: "s"},
		{To: "c@example.com", Subject: "s"},
	}

	report := Deliver(context.Background(), sender, messages, 2)

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"b@example.com"}, report.FailedTo)
	sender.AssertNumberOfCalls(t, "Send", 3)
}

type countingSender struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (s *countingSender) Name() string { return "counting" }

func (s *countingSender) Send(ctx context.Context, msg EmailMessage) error {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	s.inFlight.Add(-1)
	return nil
}

func TestDeliverRespectsLimit(t *testing.T) {
	sender := &countingSender{}
	var messages []EmailMessage
	for i := 0; i < 50; i++ {
		messages = append(messages, EmailMessage{To: fmt.Sprintf("u%d@example.com", i)})
	}

	report := Deliver(context.Background(), sender, messages, 4)

	assert.Equal(t, 50, report.Sent)
	assert.EqualValues(t, 50, sender.calls.Load())
	assert.LessOrEqual(t, sender.peak.Load(), int32(4))
}

func TestDeliverEmpty(t *testing.T) {
	report := Deliver(context.Background(), LoggingSender{}, nil, 4)
	assert.Zero(t, report.Attempted)
}

func TestDeliverDoesNotResendFailures(t *testing.T) {
	sender := new(MockEmailSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("provider down"))

	report := Deliver(context.Background(), sender, []EmailMessage{{To: "a@example.com"}}, 2)

	assert.Equal(t, 1, report.Failed)
	sender.AssertNumberOfCalls(t, "Send", 1)
}
