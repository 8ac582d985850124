package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mesaYaReservas/internal/modules/realtime/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Conn is the part of *websocket.Conn used by a Client.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	ReadJSON(v any) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

type Client struct {
	hub        *Hub
	conn       Conn
	send       chan []byte
	userID     string
	sessionID  string
	commands   *CommandProcessor
	subscribed map[string]struct{}
	closeOnce  sync.Once
	closed     bool
	sendMu     sync.Mutex

	filterMu   sync.RWMutex
	dateFilter string
}

// NewClient creates a websocket client with a send buffer of buf messages.
func NewClient(hub *Hub, conn Conn, userID, sessionID string, buf int) *Client {
	if buf <= 0 {
		buf = 8
	}
	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		userID:     strings.TrimSpace(userID),
		sessionID:  strings.TrimSpace(sessionID),
		subscribed: make(map[string]struct{}),
	}
	client.commands = NewCommandProcessor(hub)
	return client
}

func (c *Client) key() string {
	return c.userID + ":" + c.sessionID
}

// DateFilter returns the date this client is restricted to, or "".
func (c *Client) DateFilter() string {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.dateFilter
}

// SetDateFilter restricts the client to messages about one date. An empty
// value removes the restriction.
func (c *Client) SetDateFilter(date string) {
	c.filterMu.Lock()
	c.dateFilter = strings.TrimSpace(date)
	c.filterMu.Unlock()
}

func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) SendDomainMessage(msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	if !c.enqueue(data) {
		slog.Warn("websocket send buffer full", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
		go c.hub.detachClient(c)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID), slog.Any("error", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.commands.Process(c, cmd)
	}
}
