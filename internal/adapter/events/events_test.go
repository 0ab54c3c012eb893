package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simaogato/sendflow/internal/domain"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e domain.FlowEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func testEvent() domain.FlowEvent {
	return domain.FlowEvent{
		ID:               uuid.New(),
		SessionID:        uuid.New(),
		Type:             domain.EventSent,
		Flow:             domain.FlowSent,
		Card:             domain.CardComplete,
		Epoch:            2,
		AmountMinorUnits: 200000,
		SenderID:         "greenfield",
		ReceiverID:       "openai",
		Rail:             domain.RailNetworkInstant,
		OccurredAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	e := testEvent()
	w := new(mockWriter)
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		var decoded domain.FlowEvent
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return string(msgs[0].Key) == e.SessionID.String() &&
			decoded.Type == domain.EventSent &&
			decoded.AmountMinorUnits == 200000
	})).Return(nil)

	p := &KafkaPublisher{writer: w}
	require.NoError(t, p.Publish(context.Background(), e))
	w.AssertExpectations(t)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := new(mockWriter)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))
	w.On("Close").Return(nil)

	p := &KafkaPublisher{writer: w}
	assert.EqualError(t, p.Publish(context.Background(), testEvent()), "broker unavailable")
	assert.NoError(t, p.Close())
}

func TestEncodeMessage(t *testing.T) {
	e := testEvent()
	msg, err := encodeMessage(e)
	require.NoError(t, err)

	assert.Equal(t, e.OccurredAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "sent", string(msg.Headers[0].Value))
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Publish(context.Background(), testEvent()))

	entries := logs.FilterMessage("flow event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sent", fields["type"])
	assert.Equal(t, int64(200000), fields["amount_minor_units"])
}

func TestMultiPublisher(t *testing.T) {
	ok := new(mockPublisher)
	failing := new(mockPublisher)
	ok.On("Publish", mock.Anything, mock.Anything).Return(nil)
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("down"))
	ok.On("Close").Return(nil)
	failing.On("Close").Return(nil)

	m := MultiPublisher{ok, failing, NoopPublisher{}}
	err := m.Publish(context.Background(), testEvent())

	assert.EqualError(t, err, "down")
	ok.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.NoError(t, m.Close())
}
