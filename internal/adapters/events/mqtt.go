package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/ports"
)

const (
	qosAtLeastOnce = 1
	connectTimeout = 10 * time.Second
	quiesceMillis  = 250
)

// ChangeHandler receives change events published by other instances.
type ChangeHandler func(ctx context.Context, event ports.ChangeEvent)

// Notifier publishes todo changes to an MQTT topic and delivers changes made elsewhere.
type Notifier struct {
	client mqtt.Client
	topic  string
	origin string
	logger *logger.Logger

	mu      sync.RWMutex
	handler ChangeHandler
}

var _ ports.ChangeNotifier = (*Notifier)(nil)

// NewNotifier connects to the configured broker.
func NewNotifier(cfg config.MQTTConfig, log *logger.Logger) (*Notifier, error) {
	origin := uuid.NewString()
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "todoboard-" + origin[:8]
	}

	n := &Notifier{
		topic:  cfg.Topic,
		origin: origin,
		logger: log.WithComponent("mqtt"),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		n.logger.Warnw("Broker connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		// Clean sessions drop subscriptions, so restore ours on every connect.
		if n.currentHandler() != nil {
			c.Subscribe(n.topic, qosAtLeastOnce, n.onMessage)
		}
	})

	n.client = mqtt.NewClient(opts)
	token := n.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}

	n.logger.Infow("Connected to broker", "broker", cfg.Broker, "topic", cfg.Topic, "origin", origin)
	return n, nil
}

// NewNotifierFromClient wraps an already connected client.
func NewNotifierFromClient(client mqtt.Client, topic string, log *logger.Logger) *Notifier {
	return newNotifier(client, topic, uuid.NewString(), log.WithComponent("mqtt"))
}

func newNotifier(client mqtt.Client, topic, origin string, log *logger.Logger) *Notifier {
	return &Notifier{client: client, topic: topic, origin: origin, logger: log}
}

// Origin identifies this process in published events.
func (n *Notifier) Origin() string {
	return n.origin
}

// Publish sends the event, stamping it with this process's origin.
func (n *Notifier) Publish(ctx context.Context, event ports.ChangeEvent) error {
	event.Origin = n.origin
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	token := n.client.Publish(n.topic, qosAtLeastOnce, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish change event: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers the handler for events published by other instances.
func (n *Notifier) Subscribe(handler ChangeHandler) error {
	if handler == nil {
		return errors.New("change handler is required")
	}

	n.mu.Lock()
	n.handler = handler
	n.mu.Unlock()

	token := n.client.Subscribe(n.topic, qosAtLeastOnce, n.onMessage)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("subscribe to %s: timed out", n.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", n.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (n *Notifier) Close() {
	n.client.Disconnect(quiesceMillis)
}

func (n *Notifier) currentHandler() ChangeHandler {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.handler
}

func (n *Notifier) onMessage(_ mqtt.Client, msg mqtt.Message) {
	n.handle(msg.Payload())
}

func (n *Notifier) handle(payload []byte) {
	var event ports.ChangeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		n.logger.Warnw("Dropping malformed change event", "error", err)
		return
	}
	if event.Origin == n.origin {
		return
	}

	handler := n.currentHandler()
	if handler == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	handler(ctx, event)
}
