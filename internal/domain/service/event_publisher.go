package service

import (
	"context"
	"time"
)

// MemberRegisteredEventType is the event name attached to every published registration.
const MemberRegisteredEventType = "member.registered"

// MemberRegisteredEvent announces a new registration to downstream consumers.
// It carries no phone, ID number or credential material.
type MemberRegisteredEvent struct {
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	MemberID     int64     `json:"member_id"`
	Email        string    `json:"email"`
	County       string    `json:"county"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishMemberRegistered publishes a registration event
	PublishMemberRegistered(ctx context.Context, event *MemberRegisteredEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
