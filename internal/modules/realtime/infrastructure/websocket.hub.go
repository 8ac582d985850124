package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"mesaYaReservas/internal/modules/realtime/domain"
)

// Hub fans messages out to websocket clients by topic. Global clients receive
// every message.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	global  map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
		global:  make(map[*Client]struct{}),
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.key()]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.key()] = c
	slog.Info("ws client registered", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromTopicLocked(c, topic)
	delete(c.subscribed, topic)
	slog.Debug("ws client unsubscribed", slog.String("userId", c.userID), slog.String("topic", topic))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for topic := range c.subscribed {
		h.removeFromTopicLocked(c, topic)
	}
	if current, ok := h.clients[c.key()]; ok && current == c {
		delete(h.clients, c.key())
	}
	delete(h.global, c)
	c.close()
	slog.Info("ws client detached", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
}

func (h *Hub) removeFromTopicLocked(c *Client, topic string) {
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Broadcast delivers msg to the subscribers of msg.Topic and to global
// clients. Metadata userId and sessionId target a single client; clients with
// a date filter only receive messages for that date. A client whose buffer is
// full is detached.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	subscribers := h.topics[msg.Topic]
	clients := make([]*Client, 0, len(subscribers)+len(h.global))
	seen := make(map[*Client]struct{}, len(subscribers)+len(h.global))
	for c := range subscribers {
		clients = append(clients, c)
		seen[c] = struct{}{}
	}
	for c := range h.global {
		if _, ok := seen[c]; !ok {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	targetUser := msg.MetadataValue("userId")
	targetSession := msg.MetadataValue("sessionId")
	date := msg.MetadataValue("date")

	delivered := 0
	for _, c := range clients {
		if targetUser != "" && c.userID != targetUser {
			continue
		}
		if targetSession != "" && c.sessionID != targetSession {
			continue
		}
		if filter := c.DateFilter(); filter != "" && date != "" && filter != date {
			continue
		}
		if !c.enqueue(data) {
			go h.detachClient(c)
			continue
		}
		delivered++
	}
	slog.Debug("ws broadcast", slog.String("topic", msg.Topic), slog.Int("clients", delivered))
}

// AttachClient registers c and subscribes it to topics.
func (h *Hub) AttachClient(c *Client, topics []string) {
	h.registerClient(c)
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			h.subscribe(c, trimmed)
		}
	}
	slog.Info("ws client attached", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID), slog.Any("topics", topics))
}

// AttachClientToAll registers c as a global subscriber receiving every message.
func (h *Hub) AttachClientToAll(c *Client) {
	h.registerClient(c)
	h.mu.Lock()
	h.global[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("ws client attached to all topics", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
