package infrastructure

import (
	"context"
	"log/slog"

	"mesaYaReservas/internal/modules/realtime/application/port"
	"mesaYaReservas/internal/modules/realtime/domain"
)

// HandlerRegistry routes broker messages to the handler registered for the
// topic they were read from.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

// Topics returns the registered topic names.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, topic string, msg *domain.Message) error {
	if handler, ok := r.handlers[topic]; ok {
		return handler.Handle(ctx, msg)
	}
	slog.Debug("no handler for topic", slog.String("topic", topic))
	return nil
}
