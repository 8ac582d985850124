package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"mesaYaReservas/internal/modules/reservations/application/port"
	"mesaYaReservas/internal/modules/reservations/domain"
)

// AMQPPublisher sends reservation events to a durable RabbitMQ queue. With an
// exchange the queue is bound to that fanout exchange and events are published
// there, so feed consumers get their own copy. Each publish uses its own
// connection.
type AMQPPublisher struct {
	url      string
	exchange string
	queue    string
}

func NewAMQPPublisher(url, exchange, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, exchange: exchange, queue: queue}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event domain.ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare %s: %w", p.queue, err)
	}

	if p.exchange != "" {
		if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
			return fmt.Errorf("amqp exchange declare %s: %w", p.exchange, err)
		}
		if err := ch.QueueBind(p.queue, "", p.exchange, false, nil); err != nil {
			return fmt.Errorf("amqp queue bind %s: %w", p.queue, err)
		}
	}

	err = ch.PublishWithContext(ctx, p.exchange, p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ResourceID,
		Type:         event.Topic,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish %s: %w", p.queue, err)
	}
	return nil
}

var _ port.EventPublisher = (*AMQPPublisher)(nil)
