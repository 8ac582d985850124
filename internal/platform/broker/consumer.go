package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"mesaYaReservas/internal/modules/realtime/domain"
	"mesaYaReservas/internal/shared/normalization"
)

// MessageHandler receives each decoded message with the topic it was read from.
type MessageHandler func(topic string, msg *domain.Message) error

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			Topic:       topic,
			StartOffset: kafka.LastOffset,
		}),
	}
}

// Consume reads until ctx is cancelled.
func (c *KafkaConsumer) Consume(ctx context.Context, handler MessageHandler) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			time.Sleep(time.Second)
			continue
		}
		msg := decodeMessage(m.Topic, m.Value)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(m.Topic, msg); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// decodeMessage turns a broker payload into a feed message. Payloads that are
// not JSON events are passed through as text with entity and action inferred
// from the topic name.
func decodeMessage(topic string, value []byte) *domain.Message {
	msg := &domain.Message{Timestamp: time.Now().UTC()}

	var event rawEvent
	if err := json.Unmarshal(value, &event); err != nil {
		msg.Topic = topic
		entity, action := inferEntityActionFromTopic(topic)
		msg.Entity, msg.Action = normalization.NormalizeEntity(entity), action
		msg.Data = string(value)
		return msg
	}

	inferredEntity, inferredAction := inferEntityActionFromTopic(topic)
	msg.Entity = normalization.NormalizeEntity(firstNonEmpty(event.Entity, inferredEntity))
	msg.Action = firstNonEmpty(event.Action, inferredAction)
	msg.ResourceID = event.ResourceID
	msg.Metadata = event.Metadata
	msg.Data = event.Data
	if !event.OccurredAt.IsZero() {
		msg.Timestamp = event.OccurredAt.UTC()
	}
	msg.Topic = firstNonEmpty(event.Topic, domain.CustomTopic(msg.Entity, msg.Action))
	return msg
}

func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	return strings.TrimSpace(topic), "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
