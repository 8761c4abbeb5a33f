package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

// Publisher delivers booking events to a broker.  Callers treat failures
// as non-fatal: a committed booking stays committed.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error
	Close() error
}

// NopPublisher drops every event.  Used when EVENTS_DRIVER=none.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmedEvent) error { return nil }
func (NopPublisher) Close() error { return nil }

// RabbitPublisher publishes to a durable queue on the default exchange.  A
// connection is dialed per message; booking volume is low and this keeps
// the publisher free of reconnect state.
type RabbitPublisher struct {
	url   string
	queue string
}

// NewRabbitPublisher returns a publisher for queue on the broker at url.
func NewRabbitPublisher(url, queue string) *RabbitPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RabbitPublisher{url: url, queue: queue}
}

// PublishBookingConfirmed publishes ev as a persistent JSON message.
func (p *RabbitPublisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.BookingID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error { return nil }

// KafkaPublisher writes events to a Kafka topic keyed by booking ID.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// PublishBookingConfirmed writes ev as a JSON message.
func (p *KafkaPublisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.BookingID),
		Value: body,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error { return p.writer.Close() }
