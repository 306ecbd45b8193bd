package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventParentRegistered    EventType = "parent_registered"
	EventActivationRequested EventType = "activation_requested"
	EventChildAdded          EventType = "child_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// ActivationPayload carries what the activation email needs. It is used by
// both parent_registered and activation_requested.
type ActivationPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Token     string `json:"-"`
}

// ChildAddedPayload payload.
type ChildAddedPayload struct {
	ChildID    int64  `json:"child_id"`
	ChildName  string `json:"child_name"`
	ParentName string `json:"parent_name"`
}
