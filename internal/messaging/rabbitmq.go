package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeName = "clinic.events"
	ExchangeType = "topic"
)

// Publisher publishes domain events to the clinic topic exchange. A channel
// closed by the broker is re-dialed on the next publish.
type Publisher struct {
	url string
	log *zap.Logger

	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher dials RabbitMQ and declares the topic exchange.
func NewPublisher(rabbitmqURL string, log *zap.Logger) (*Publisher, error) {
	p := &Publisher{url: rabbitmqURL, log: log.Named("rabbitmq")}
	p.log.Info("connecting to RabbitMQ", zap.String("url", maskPassword(rabbitmqURL)))

	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect must be called with p.mu held or before p is shared.
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	// durable, not auto-deleted, not internal, wait for the broker
	if err := channel.ExchangeDeclare(ExchangeName, ExchangeType, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", ExchangeName, err)
	}

	p.conn, p.channel = conn, channel
	p.log.Info("declared exchange", zap.String("exchange", ExchangeName))
	return nil
}

// Publish sends eventData as a persistent JSON message under routingKey.
// Events exposing ID() use it as the AMQP message id.
func (p *Publisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		AppId:        serviceName,
	}
	if ev, ok := eventData.(interface{ ID() string }); ok {
		msg.MessageId = ev.ID()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.log.Warn("RabbitMQ channel closed, reconnecting")
		p.closeLocked()
		if err := p.connect(); err != nil {
			return err
		}
	}

	// not mandatory, not immediate: unrouted events are dropped by the broker
	if err := p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", routingKey, err)
	}

	p.log.Debug("published event", zap.String("routing_key", routingKey), zap.String("message_id", msg.MessageId))
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Publisher) closeLocked() error {
	var err error
	if p.channel != nil && !p.channel.IsClosed() {
		if cerr := p.channel.Close(); cerr != nil {
			p.log.Warn("error closing RabbitMQ channel", zap.Error(cerr))
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		err = p.conn.Close()
	}
	p.channel, p.conn = nil, nil
	return err
}

// maskPassword hides credentials in a broker URL for logging
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
