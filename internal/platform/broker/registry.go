package broker

import (
	"context"
	"log/slog"

	"mesaYaReservas/internal/modules/realtime/domain"
	"mesaYaReservas/internal/modules/realtime/infrastructure"
)

// InstanceGroupID derives the consumer group of one server instance. Every
// instance reads the whole feed because each hub only reaches its own clients.
func InstanceGroupID(base, instanceID string) string {
	if instanceID == "" {
		return base
	}
	return base + "." + instanceID
}

// StartKafkaConsumers runs one consumer per registered topic until ctx ends.
func StartKafkaConsumers(ctx context.Context, registry *infrastructure.HandlerRegistry, brokers []string, groupID string) {
	if len(brokers) == 0 {
		slog.Info("kafka consumers disabled: no brokers configured")
		return
	}
	for _, topic := range registry.Topics() {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			_ = consumer.Consume(ctx, func(source string, msg *domain.Message) error {
				return registry.Dispatch(ctx, source, msg)
			})
		}(topic)
	}
}

// StartAMQPConsumer feeds exchange messages into the registry under the queue
// name until ctx ends.
func StartAMQPConsumer(ctx context.Context, registry *infrastructure.HandlerRegistry, url, exchange, queue string) {
	if url == "" || queue == "" {
		return
	}
	go func() {
		consumer := NewAMQPConsumer(url, exchange, queue)
		_ = consumer.Consume(ctx, func(source string, msg *domain.Message) error {
			return registry.Dispatch(ctx, source, msg)
		})
	}()
}
