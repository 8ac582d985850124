package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"mesaYaReservas/internal/modules/realtime/domain"
)

type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// CommandProcessor dispatches client commands: subscribe, unsubscribe, ping
// and filter.
type CommandProcessor struct {
	hub      *Hub
	handlers map[string]CommandHandler
}

func NewCommandProcessor(hub *Hub) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]CommandHandler),
	}
	processor.Register("subscribe", processor.handleSubscribe)
	processor.Register("unsubscribe", processor.handleUnsubscribe)
	processor.Register("ping", processor.handlePing)
	processor.Register("filter", processor.handleFilter)
	return processor
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	key := normalizeAction(action)
	if handler == nil || key == "" {
		return
	}
	p.handlers[key] = handler
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}
	action := normalizeAction(cmd.Action)
	handler, ok := p.handlers[action]
	if !ok {
		slog.Debug("ws command ignored", slog.String("userId", client.userID), slog.String("action", action))
		client.SendDomainMessage(&domain.Message{
			Topic:     domain.TopicSystemError,
			Entity:    domain.SystemEntity,
			Action:    domain.ActionError,
			Data:      map[string]string{"error": "unknown action", "action": cmd.Action},
			Timestamp: time.Now().UTC(),
		})
		return
	}
	handler(context.Background(), client, cmd)
}

func (p *CommandProcessor) handleSubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.subscribe(client, topic)
	slog.Debug("ws subscribe", slog.String("userId", client.userID), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: time.Now().UTC(),
	})
}

// handleFilter expects a payload of {"date": "YYYY-MM-DD"}; an empty date
// clears the filter.
func (p *CommandProcessor) handleFilter(_ context.Context, client *Client, cmd Command) {
	var payload struct {
		Date string `json:"date"`
	}
	if len(cmd.Payload) > 0 {
		if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
			slog.Debug("ws filter payload invalid", slog.String("userId", client.userID), slog.Any("error", err))
			return
		}
	}
	client.SetDateFilter(payload.Date)
	slog.Debug("ws filter", slog.String("userId", client.userID), slog.String("date", payload.Date))
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
