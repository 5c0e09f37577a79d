package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/domain/event"
	"github.com/wichananm65/user-directory/internal/infrastructure/logger"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	closed     bool
	declareErr error
	publishErr error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) IsClosed() bool { return f.closed }

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent(t event.Type) event.UserEvent {
	return event.NewUserEvent(t, &entity.User{ID: entity.NewID(), Email: "jane@example.com", IsActive: true})
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "users", logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"users:topic"}, ch.declared)

	e := sampleEvent(event.UserCreated)
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "users", got.exchange)
	assert.Equal(t, "user.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var decoded event.UserEvent
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, e.UserID, decoded.UserID)
	assert.Equal(t, event.UserCreated, decoded.Type)
}

func TestRabbitMQPublisher_Errors(t *testing.T) {
	_, err := newPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "users", logger.Discard())
	assert.ErrorContains(t, err, "declare exchange")

	ch := &fakeChannel{publishErr: errors.New("boom")}
	p, err := newPublisher(ch, "users", logger.Discard())
	require.NoError(t, err)
	assert.EqualError(t, p.Publish(context.Background(), sampleEvent(event.UserDeleted)), "boom")

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent(event.UserDeleted)), ErrPublisherClosed)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(logger.New("info", &buf))

	e := event.UserEvent{Type: event.UserDeactivated, UserID: "abc", Email: "a@b.co", OccurredAt: time.Now()}
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "user.deactivated", line["message"])
	assert.Equal(t, "event", line["action"])
	assert.Equal(t, "abc", line["userId"])
	assert.Equal(t, false, line["isActive"])
}
