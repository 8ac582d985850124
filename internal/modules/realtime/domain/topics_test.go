package domain

import (
	"reflect"
	"testing"
)

func TestFeedTopics(t *testing.T) {
	t.Parallel()

	got := FeedTopics("reservations", []string{"Created", " ", "created", "snapshot", "updated"})
	want := []string{"reservations.snapshot", "reservations.created", "reservations.updated"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMessageNormalizeTopic(t *testing.T) {
	t.Parallel()

	msg := &Message{Entity: "reservations", Action: "CREATED"}
	msg.NormalizeTopic()
	if msg.Topic != "reservations.created" {
		t.Fatalf("expected reservations.created, got %q", msg.Topic)
	}

	msg = &Message{Topic: "custom.topic", Entity: "reservations", Action: "created"}
	msg.NormalizeTopic()
	if msg.Topic != "custom.topic" {
		t.Fatalf("expected explicit topic to win, got %q", msg.Topic)
	}

	if CustomTopic("", "created") != "" {
		t.Fatal("expected empty topic without entity")
	}
}
