package domain

import "strings"

const (
	SystemEntity = "system"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionSnapshot  = "snapshot"
	ActionCreated   = "created"
)

// SnapshotTopic returns the canonical snapshot topic for the given entity.
func SnapshotTopic(entity string) string {
	return CustomTopic(entity, ActionSnapshot)
}

// CreatedTopic returns the canonical created topic for the given entity.
func CreatedTopic(entity string) string {
	return CustomTopic(entity, ActionCreated)
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := trim(entity)
	cleanAction := strings.ToLower(trim(action))
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}

// FeedTopics lists the topics a feed client of entity subscribes to: the
// snapshot topic first, then one topic per allowed action.
func FeedTopics(entity string, allowedActions []string) []string {
	topics := []string{SnapshotTopic(entity)}
	seen := map[string]struct{}{topics[0]: {}}
	for _, action := range allowedActions {
		topic := CustomTopic(entity, action)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics
}

func trim(value string) string {
	return strings.TrimSpace(value)
}
