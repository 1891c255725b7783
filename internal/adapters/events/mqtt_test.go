package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type pendingToken struct{ doneToken }

func (pendingToken) Done() <-chan struct{} { return make(chan struct{}) }

type message struct {
	mqtt.Message
	payload []byte
}

func (m message) Payload() []byte { return m.payload }

// loopbackClient delivers every publish to the subscribed handler synchronously.
type loopbackClient struct {
	mqtt.Client
	publishErr error
	pending    bool
	published  [][]byte
	handler    mqtt.MessageHandler
}

func (c *loopbackClient) Publish(_ string, _ byte, _ bool, payload interface{}) mqtt.Token {
	if c.pending {
		return pendingToken{}
	}
	if c.publishErr != nil {
		return doneToken{err: c.publishErr}
	}
	b := payload.([]byte)
	c.published = append(c.published, b)
	if c.handler != nil {
		c.handler(c, message{payload: b})
	}
	return doneToken{}
}

func (c *loopbackClient) Subscribe(_ string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.handler = cb
	return doneToken{}
}

func (c *loopbackClient) Disconnect(uint) {}

func TestPublishStampsOrigin(t *testing.T) {
	client := &loopbackClient{}
	n := newNotifier(client, "board/changed", "me", logger.NewNop())

	require.NoError(t, n.Publish(context.Background(), ports.ChangeEvent{Op: ports.ChangeCreated, TodoID: 3}))
	require.Len(t, client.published, 1)

	var got ports.ChangeEvent
	require.NoError(t, json.Unmarshal(client.published[0], &got))
	assert.Equal(t, "me", got.Origin)
	assert.Equal(t, ports.ChangeCreated, got.Op)
	assert.Equal(t, int64(3), got.TodoID)
	assert.False(t, got.At.IsZero())
}

func TestSubscriberIgnoresOwnEvents(t *testing.T) {
	client := &loopbackClient{}
	n := newNotifier(client, "board/changed", "me", logger.NewNop())

	var received []ports.ChangeEvent
	require.NoError(t, n.Subscribe(func(_ context.Context, ev ports.ChangeEvent) {
		received = append(received, ev)
	}))

	require.NoError(t, n.Publish(context.Background(), ports.ChangeEvent{Op: ports.ChangeUpdated, TodoID: 1}))
	assert.Empty(t, received)

	foreign, _ := json.Marshal(ports.ChangeEvent{Origin: "other", Op: ports.ChangeDeleted, TodoID: 9})
	n.handle(foreign)
	require.Len(t, received, 1)
	assert.Equal(t, ports.ChangeDeleted, received[0].Op)

	n.handle([]byte("not json"))
	assert.Len(t, received, 1)
}

func TestPublishErrors(t *testing.T) {
	boom := errors.New("broker gone")
	n := newNotifier(&loopbackClient{publishErr: boom}, "t", "me", logger.NewNop())
	assert.ErrorIs(t, n.Publish(context.Background(), ports.ChangeEvent{}), boom)

	n = newNotifier(&loopbackClient{pending: true}, "t", "me", logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Publish(ctx, ports.ChangeEvent{}), context.Canceled)
}

func TestSubscribeRequiresHandler(t *testing.T) {
	n := newNotifier(&loopbackClient{}, "t", "me", logger.NewNop())
	assert.Error(t, n.Subscribe(nil))
}

func TestNotifierFromClientGetsOrigin(t *testing.T) {
	a := NewNotifierFromClient(&loopbackClient{}, "t", logger.NewNop())
	b := NewNotifierFromClient(&loopbackClient{}, "t", logger.NewNop())
	assert.NotEmpty(t, a.Origin())
	assert.NotEqual(t, a.Origin(), b.Origin())
}
