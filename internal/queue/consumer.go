package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue is the durable queue booking events are published to.
const DefaultQueue = "booking.confirmed"

// ConsumerConfig configures StartBookingConsumer.
type ConsumerConfig struct {
	URL    string
	Queue  string
	LogDir string // booking.log is written here; defaults to "logs"
}

// StartBookingConsumer connects to RabbitMQ, declares the queue (durable),
// and appends one line per booking to <LogDir>/booking.log.  It reconnects
// with exponential backoff and only returns once ctx is cancelled.
// Messages that can not be handled are rejected without requeue.
func StartBookingConsumer(ctx context.Context, cfg ConsumerConfig, log *slog.Logger) error {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("booking-consumer: failed to dial broker", slog.String("error", err.Error()), slog.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("booking-consumer: consume loop ended; reconnecting", slog.String("error", err.Error()))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, log *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("booking-consumer: set QoS failed", slog.String("error", err.Error()))
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(cfg.LogDir, d.Body); err != nil {
				log.Error("booking-consumer: handle message failed", slog.String("error", err.Error()))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one booking event and appends it to
// <dir>/booking.log.
func HandleMessage(dir string, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(ev.LogLine()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
