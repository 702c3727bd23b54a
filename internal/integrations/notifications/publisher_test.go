package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sampleAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:          7,
		Customer:    domain.SomeCustomer(uuid.MustParse("6f1c1a52-3c1e-4b8e-9d0a-0d6e6f3f7a11")),
		BookingDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00:00",
		Status:      domain.StatusBooked,
		ClientName:  "Ana",
		ClientPhone: "+5511999999999",
		Services:    []domain.ServiceRef{{ServiceID: 1, Name: "Haircut", Price: 50, DurationMinutes: 30}},
	}
}

func TestPublisher_PublishCreated(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPublisherWithWriter(writer, Config{}, nopLogger{})

	require.NoError(t, p.PublishAppointmentCreated(context.Background(), sampleAppointment()))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, TopicAppointmentCreated, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, EventAppointmentCreated, headers["event_type"])
	_, err := uuid.Parse(headers["event_id"])
	assert.NoError(t, err)

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, headers["event_id"], event.EventID)
	assert.Equal(t, "2026-10-19", event.Date)
	assert.Equal(t, "09:00:00", event.StartTime)
	require.NotNil(t, event.CustomerID)
	assert.Equal(t, "6f1c1a52-3c1e-4b8e-9d0a-0d6e6f3f7a11", *event.CustomerID)
	assert.Len(t, event.Services, 1)
}

func TestPublisher_GuestHasNoCustomer(t *testing.T) {
	writer := &fakeWriter{}
	p := NewPublisherWithWriter(writer, Config{CancelledTopic: "custom.cancelled"}, nopLogger{})

	a := sampleAppointment()
	a.Customer = domain.NoCustomer()
	require.NoError(t, p.PublishAppointmentCancelled(context.Background(), a))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "custom.cancelled", writer.messages[0].Topic)

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Nil(t, event.CustomerID)
	assert.Equal(t, EventAppointmentCancelled, event.EventType)
}

func TestPublisher_WriteError(t *testing.T) {
	p := NewPublisherWithWriter(&fakeWriter{err: errors.New("broker down")}, Config{}, nopLogger{})

	err := p.PublishAppointmentCreated(context.Background(), sampleAppointment())
	assert.ErrorIs(t, err, ErrPublish)
}

func TestPublisher_DisabledWithoutBrokers(t *testing.T) {
	p := NewPublisher(Config{Brokers: " , "}, nopLogger{})

	assert.False(t, p.Enabled())
	assert.NoError(t, p.PublishAppointmentCreated(context.Background(), sampleAppointment()))
	assert.NoError(t, p.Close())
}

func TestNewKafkaWriter_FlushesEachMessage(t *testing.T) {
	w := newKafkaWriter([]string{"kafka-1:9092"}, Config{WriteTimeout: 3 * time.Second})
	defer w.Close()

	assert.Equal(t, 1, w.BatchSize)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, 3*time.Second, w.WriteTimeout)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
}

func TestPublisher_EnabledWithBrokers(t *testing.T) {
	p := NewPublisher(Config{Brokers: "kafka-1:9092"}, nopLogger{})
	defer p.Close()

	require.True(t, p.Enabled())
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 1, w.BatchSize)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Empty(t, SplitBrokers(""))
}
