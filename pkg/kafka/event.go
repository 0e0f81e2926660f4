package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for all messages published to Kafka. Consumers rely
// on EventID for deduplication and AggregateID for partitioning.
type Event struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload"`
}

// NewEvent builds an event envelope with a fresh ID and timestamp.
func NewEvent(eventType, aggregateID string, payload any) Event {
	return Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}
