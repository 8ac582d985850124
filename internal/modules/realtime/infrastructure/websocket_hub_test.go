package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"mesaYaReservas/internal/modules/realtime/application/handler"
	"mesaYaReservas/internal/modules/realtime/application/usecase"
	"mesaYaReservas/internal/modules/realtime/domain"
	reservations "mesaYaReservas/internal/modules/reservations/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	closed bool
}

func (c *fakeConn) WriteMessage(int, []byte) error            { return nil }
func (c *fakeConn) WriteControl(int, []byte, time.Time) error { return nil }
func (c *fakeConn) ReadJSON(any) error                        { return errors.New("closed") }
func (c *fakeConn) SetReadLimit(int64)                        {}
func (c *fakeConn) SetReadDeadline(time.Time) error           { return nil }
func (c *fakeConn) SetPongHandler(func(string) error)         {}
func (c *fakeConn) Close() error                              { c.mu.Lock(); c.closed = true; c.mu.Unlock(); return nil }

func drain(t *testing.T, c *Client) []domain.Message {
	t.Helper()
	var out []domain.Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg domain.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("decode message: %v", err)
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestHubBroadcastByTopic(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	feed := NewClient(hub, &fakeConn{}, "admin-1", "s1", 4)
	other := NewClient(hub, &fakeConn{}, "admin-2", "s2", 4)
	hub.AttachClient(feed, []string{"reservations.created"})
	hub.AttachClient(other, []string{"tables.updated"})

	hub.Broadcast(context.Background(), &domain.Message{Topic: "reservations.created", Entity: "reservations", Action: "created"})

	if got := drain(t, feed); len(got) != 1 || got[0].Topic != "reservations.created" {
		t.Fatalf("expected one message for subscriber, got %+v", got)
	}
	if got := drain(t, other); len(got) != 0 {
		t.Fatalf("expected nothing for other topic, got %+v", got)
	}
}

func TestHubDateFilterAndTargeting(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	filtered := NewClient(hub, &fakeConn{}, "admin-1", "s1", 4)
	filtered.SetDateFilter("2025-06-02")
	global := NewClient(hub, &fakeConn{}, "admin-2", "s2", 4)
	hub.AttachClient(filtered, []string{"reservations.created"})
	hub.AttachClientToAll(global)

	hub.Broadcast(context.Background(), &domain.Message{
		Topic:    "reservations.created",
		Metadata: map[string]string{"date": "2025-06-01"},
	})
	if got := drain(t, filtered); len(got) != 0 {
		t.Fatalf("expected date filter to drop message, got %+v", got)
	}
	if got := drain(t, global); len(got) != 1 {
		t.Fatalf("expected global client to receive message, got %d", len(got))
	}

	hub.Broadcast(context.Background(), &domain.Message{
		Topic:    "anything",
		Metadata: map[string]string{"userId": "admin-1"},
	})
	if got := drain(t, global); len(got) != 0 {
		t.Fatalf("expected targeted message to skip other users, got %+v", got)
	}
}

func TestHubReplacesClientWithSameSession(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	firstConn := &fakeConn{}
	first := NewClient(hub, firstConn, "admin-1", "s1", 4)
	second := NewClient(hub, &fakeConn{}, "admin-1", "s1", 4)
	hub.AttachClient(first, []string{"reservations.created"})
	hub.AttachClient(second, []string{"reservations.created"})

	if hub.ClientCount() != 1 {
		t.Fatalf("expected one registered client, got %d", hub.ClientCount())
	}
	firstConn.mu.Lock()
	closed := firstConn.closed
	firstConn.mu.Unlock()
	if !closed {
		t.Fatal("expected replaced client connection to be closed")
	}
}

func TestLocalPublisherReachesSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	registry := NewHandlerRegistry()
	broadcast := usecase.NewBroadcastUseCase(hub)
	registry.Register(handler.NewEntityStreamHandler(reservations.EventEntity, "reservations.created", []string{"created"}, broadcast))

	client := NewClient(hub, &fakeConn{}, "admin-1", "s1", 4)
	hub.AttachClient(client, domain.FeedTopics(reservations.EventEntity, []string{"created"}))

	event := reservations.NewReservationCreatedEvent(reservations.Reservation{
		ID: "r1", Date: "2025-06-01", Time: "20:00", PartySize: 2, Status: reservations.ReservationStatusPending, TableID: "A",
	}, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))

	publisher := NewLocalPublisher(registry, "reservations.created")
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := drain(t, client)
	if len(got) != 1 || got[0].ResourceID != "r1" || got[0].Metadata["tableId"] != "A" {
		t.Fatalf("unexpected feed messages %+v", got)
	}
	if broadcast.Delivered() != 1 {
		t.Fatalf("expected one delivered message, got %d", broadcast.Delivered())
	}
}

func TestCommandProcessorFilterAndPing(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client := NewClient(hub, &fakeConn{}, "admin-1", "s1", 4)
	hub.AttachClient(client, nil)

	client.commands.Process(client, Command{Action: "FILTER", Payload: json.RawMessage(`{"date":"2025-06-01"}`)})
	if client.DateFilter() != "2025-06-01" {
		t.Fatalf("expected date filter, got %q", client.DateFilter())
	}

	client.commands.Process(client, Command{Action: "subscribe", Topic: "reservations.created"})
	if _, ok := client.subscribed["reservations.created"]; !ok {
		t.Fatal("expected subscription")
	}

	client.commands.Process(client, Command{Action: "ping"})
	client.commands.Process(client, Command{Action: "dance"})
	got := drain(t, client)
	if len(got) != 2 || got[0].Topic != domain.TopicSystemPong || got[1].Topic != domain.TopicSystemError {
		t.Fatalf("unexpected replies %+v", got)
	}
}
