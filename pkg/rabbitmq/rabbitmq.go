package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// Event is the JSON envelope of every message on the queue.
type Event struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// EncodeEvent builds the message body for an event.
func EncodeEvent(eventType string, data map[string]interface{}, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Event{Type: eventType, Data: data, OccurredAt: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return body, nil
}

// DecodeEvent parses a message body produced by EncodeEvent.
func DecodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("event without type")
	}
	return e, nil
}

// NewClient connects to RabbitMQ, opens a channel and declares the event
// queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("queue", cfg.Queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		logger:  logger,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishEvent sends a domain event to the queue through the default
// exchange.
func (c *Client) PublishEvent(eventType string, data map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	now := time.Now()
	body, err := EncodeEvent(eventType, data, now)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("Event published", zap.String("type", eventType))
	return nil
}

// ConsumeEvents starts a goroutine that passes every event on the queue to
// handler. Handled messages are acked; failures are nacked without requeue
// so a bad message cannot loop forever.
func (c *Client) ConsumeEvents(handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Waiting for events", zap.String("queue", c.queue))

	go func() {
		for msg := range msgs {
			c.handle(msg, handler)
		}
		c.logger.Info("Event consumer stopped")
	}()

	return nil
}

func (c *Client) handle(msg amqp.Delivery, handler func(Event) error) {
	event, err := DecodeEvent(msg.Body)
	if err == nil {
		err = handler(event)
	}
	if err != nil {
		c.logger.Error("Error processing message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("Error nacking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("Error acking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}

// LogEvents returns a handler that writes each event to logger.
func LogEvents(logger *zap.Logger) func(Event) error {
	return func(e Event) error {
		logger.Info("Received event",
			zap.String("type", e.Type),
			zap.Any("data", e.Data),
			zap.Time("occurred_at", e.OccurredAt))
		return nil
	}
}
