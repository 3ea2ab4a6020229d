package events

import (
	"context"
	"strconv"
	"time"
)

// Event is the JSON document published for every tracked status change.
type Event struct {
	EventType    string    `json:"event_type"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	ActorID      string    `json:"actor_id,omitempty"`
	Status       string    `json:"status,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// New builds an event for resource id with the given actor.
func New(resourceType string, resourceID int32, eventType, status string, actorID int32) Event {
	e := Event{
		EventType:    eventType,
		ResourceType: resourceType,
		ResourceID:   strconv.Itoa(int(resourceID)),
		Status:       status,
		OccurredAt:   time.Now().UTC(),
	}
	if actorID != 0 {
		e.ActorID = strconv.Itoa(int(actorID))
	}
	return e
}

// Publisher fans domain events out to other systems. Publish never fails the
// caller's operation; implementations log and drop on error.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close()
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) {}
func (noopPublisher) Close()                         {}
