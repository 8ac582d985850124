package domain

import "time"

// Message is what the live feed pushes to websocket clients. The shape matches
// the event envelope read from the broker.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NormalizeTopic fills Topic from Entity and Action when the producer left it out.
func (m *Message) NormalizeTopic() {
	if m.Topic == "" {
		m.Topic = CustomTopic(m.Entity, m.Action)
	}
}

// MetadataValue returns the trimmed metadata entry for key.
func (m *Message) MetadataValue(key string) string {
	if m == nil || m.Metadata == nil {
		return ""
	}
	return trim(m.Metadata[key])
}
