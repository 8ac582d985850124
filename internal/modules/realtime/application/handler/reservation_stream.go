package handler

import (
	"context"
	"log/slog"
	"strings"

	"mesaYaReservas/internal/modules/realtime/application/port"
	"mesaYaReservas/internal/modules/realtime/application/usecase"
	"mesaYaReservas/internal/modules/realtime/domain"
)

// EntityStreamHandler forwards the events of one broker topic to websocket
// clients, dropping actions outside the allowed set.
type EntityStreamHandler struct {
	entity         string
	topic          string
	allowedActions map[string]struct{}
	broadcastUC    *usecase.BroadcastUseCase
}

func NewEntityStreamHandler(entity, topic string, allowedActions []string, broadcastUC *usecase.BroadcastUseCase) *EntityStreamHandler {
	actionSet := make(map[string]struct{}, len(allowedActions))
	for _, a := range allowedActions {
		if v := strings.TrimSpace(strings.ToLower(a)); v != "" {
			actionSet[v] = struct{}{}
		}
	}
	return &EntityStreamHandler{
		entity:         strings.TrimSpace(entity),
		topic:          topic,
		allowedActions: actionSet,
		broadcastUC:    broadcastUC,
	}
}

func (h *EntityStreamHandler) Topic() string { return h.topic }

func (h *EntityStreamHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	if len(h.allowedActions) > 0 {
		if _, ok := h.allowedActions[strings.ToLower(msg.Action)]; !ok {
			slog.Debug("entity-stream action skipped", slog.String("topic", h.topic), slog.String("action", msg.Action))
			return nil
		}
	}
	if msg.Entity == "" {
		msg.Entity = h.entity
	}
	// clients subscribe to entity.action, not to the broker topic name
	msg.Topic = domain.CustomTopic(msg.Entity, msg.Action)
	h.broadcastUC.Execute(ctx, msg)
	return nil
}

var _ port.TopicHandler = (*EntityStreamHandler)(nil)
