package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPConsumer reads feed events and reconnects with backoff when the broker
// goes away. With an exchange each consumer binds its own exclusive queue to
// it; without one it shares the durable queue.
type AMQPConsumer struct {
	url      string
	exchange string
	queue    string
}

func NewAMQPConsumer(url, exchange, queue string) *AMQPConsumer {
	return &AMQPConsumer{url: url, exchange: exchange, queue: queue}
}

func (c *AMQPConsumer) Consume(ctx context.Context, handler MessageHandler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			slog.Warn("amqp dial failed", slog.String("queue", c.queue), slog.Duration("retryIn", backoff), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("amqp consume loop ended, reconnecting", slog.String("queue", c.queue), slog.Any("error", err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

// declare returns the queue to consume from.
func (c *AMQPConsumer) declare(ch *amqp.Channel) (string, error) {
	if c.exchange == "" {
		if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
			return "", fmt.Errorf("queue declare: %w", err)
		}
		return c.queue, nil
	}
	if err := ch.ExchangeDeclare(c.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("exchange declare %s: %w", c.exchange, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return "", fmt.Errorf("feed queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return "", fmt.Errorf("feed queue bind %s: %w", c.exchange, err)
	}
	return q.Name, nil
}

func (c *AMQPConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection, handler MessageHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		slog.Warn("amqp set qos failed", slog.Any("error", err))
	}
	source, err := c.declare(ch)
	if err != nil {
		return err
	}
	deliveries, err := ch.Consume(source, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			msg := decodeMessage(c.queue, d.Body)
			if err := handler(c.queue, msg); err != nil {
				slog.Warn("amqp handler error", slog.Any("error", err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
