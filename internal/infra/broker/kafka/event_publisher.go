package kafka

import (
	"context"
	"encoding/json"
	"time"

	"staybook/internal/app/policies"
	"staybook/internal/domain/shared/events"
)

// EventPublisher encodes reservation lifecycle events as JSON and publishes
// them keyed by aggregate ID so per-reservation ordering is preserved.
type EventPublisher struct {
	Producer *Producer
	Topic    string
}

type eventEnvelope struct {
	Name       string          `json:"name"`
	Aggregate  string          `json:"aggregate_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func (p EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(eventEnvelope{
		Name:       event.EventName(),
		Aggregate:  event.AggregateID(),
		OccurredAt: event.OccurredAt(),
		Payload:    payload,
	})
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, p.Topic, event.AggregateID(), envelope, map[string]string{
		"event": event.EventName(),
	})
}

var _ policies.EventPublisher = EventPublisher{}
