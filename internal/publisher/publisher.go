package publisher

import (
	"context"
	"time"
)

const (
	EventProductCreated    = "product.created"
	EventProductUpdated    = "product.updated"
	EventProductDeleted    = "product.deleted"
	EventCartCreated       = "cart.created"
	EventCartProductAdded  = "cart.product_added"
	EventChatMessageStored = "chat.message"
)

// Event is a best-effort notification about a completed mutation. Delivery is not guaranteed.
type Event struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	Payload     any       `json:"payload"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewEvent(eventType, aggregateID string, payload any) Event {
	return Event{
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
