package policies

import (
	"context"

	"staybook/internal/domain/shared/events"
)

// EventPublisher pushes domain events to downstream consumers (notification
// services, analytics). A nil publisher is valid and drops events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// PublishAll drains recorded events through the publisher, stopping at the
// first failure.
func PublishAll(ctx context.Context, pub EventPublisher, evts []events.DomainEvent) error {
	if pub == nil {
		return nil
	}
	for _, e := range evts {
		if err := pub.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
