package port

import (
	"context"

	"mesaYaReservas/internal/modules/realtime/domain"
)

// Broadcaster sends messages to the connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles the messages of one broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
