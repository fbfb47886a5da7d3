package events

import "time"

// Topics carrying user lifecycle events.
const (
	TopicUserCreated = "user.created"
	TopicUserUpdated = "user.updated"
)

// UserCreatedEvent is published after a user row is persisted.
type UserCreatedEvent struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// UserUpdatedEvent is published after a profile update, carrying the set of
// changed fields.
type UserUpdatedEvent struct {
	UserID    string         `json:"userId"`
	Changes   map[string]any `json:"changes"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
}
