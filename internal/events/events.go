package events

import (
	"time"

	"github.com/bookadzone/launch-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSignupCreated   EventType = "signup_created"
	EventSubscriberAdded EventType = "subscriber_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SignupCreatedPayload payload.
type SignupCreatedPayload struct {
	SignupID    string             `json:"signup_id"`
	ProfileType domain.ProfileType `json:"profile_type"`
	CompanyName string             `json:"company_name"`
	Country     string             `json:"country"`
	City        string             `json:"city"`
}

// SubscriberAddedPayload payload.
type SubscriberAddedPayload struct {
	SubscriberID string `json:"subscriber_id"`
}
