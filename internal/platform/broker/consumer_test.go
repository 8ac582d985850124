package broker

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestDecodeMessageEvent(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"entity":"reservations","action":"created","resourceId":"r1","topic":"reservations.created",
		"metadata":{"date":"2025-06-01"},"data":{"id":"r1"},"occurredAt":"2025-05-01T09:00:00Z"}`)
	msg := decodeMessage("reservations.created", payload)

	if msg.Entity != "reservations" || msg.Action != "created" || msg.ResourceID != "r1" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Metadata["date"] != "2025-06-01" {
		t.Fatalf("expected metadata date, got %v", msg.Metadata)
	}
	if !msg.Timestamp.Equal(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected event timestamp, got %v", msg.Timestamp)
	}
}

func TestDecodeMessageInfersFromTopic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		topic      string
		payload    string
		wantEntity string
		wantAction string
		wantTopic  string
	}{
		{name: "plain text", topic: "mesaya.reservations.created", payload: "hello", wantEntity: "reservations", wantAction: "created", wantTopic: "mesaya.reservations.created"},
		{name: "json without entity", topic: "reservations.created", payload: `{"resourceId":"x"}`, wantEntity: "reservations", wantAction: "created", wantTopic: "reservations.created"},
		{name: "singular entity", topic: "reservation.created", payload: `{"resourceId":"x"}`, wantEntity: "reservations", wantAction: "created", wantTopic: "reservations.created"},
		{name: "single word topic", topic: "bookings", payload: "{}", wantEntity: "reservations", wantAction: "unknown", wantTopic: "reservations.unknown"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			msg := decodeMessage(tc.topic, []byte(tc.payload))
			if msg.Entity != tc.wantEntity || msg.Action != tc.wantAction || msg.Topic != tc.wantTopic {
				t.Fatalf("expected %s/%s/%s, got %s/%s/%s", tc.wantEntity, tc.wantAction, tc.wantTopic, msg.Entity, msg.Action, msg.Topic)
			}
		})
	}
}

func TestInstanceGroupID(t *testing.T) {
	t.Parallel()

	if got := InstanceGroupID("mesaya-feed", "web-1"); got != "mesaya-feed.web-1" {
		t.Fatalf("expected per-instance group, got %q", got)
	}
	if got := InstanceGroupID("mesaya-feed", ""); got != "mesaya-feed" {
		t.Fatalf("expected base group without instance, got %q", got)
	}
	if InstanceGroupID("g", "web-1") == InstanceGroupID("g", "web-2") {
		t.Fatal("expected instances to use different groups")
	}
}

func TestKafkaConsumerStartsAtLatestOffset(t *testing.T) {
	t.Parallel()

	consumer := NewKafkaConsumer([]string{"localhost:9092"}, "mesaya-feed.web-1", "reservations.created")
	defer consumer.reader.Close()

	cfg := consumer.reader.Config()
	if cfg.GroupID != "mesaya-feed.web-1" || cfg.StartOffset != kafka.LastOffset {
		t.Fatalf("expected new instance groups to skip history, got group %q offset %d", cfg.GroupID, cfg.StartOffset)
	}
}
