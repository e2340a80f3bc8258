// Package messaging defines the domain events contract.
package messaging

import (
	"context"
)

const ProductsSoldSubject = "inventory.products.sold"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Deduplicated events carry an id that is stable across publish retries.
type Deduplicated interface {
	MessageID() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
