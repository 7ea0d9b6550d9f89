package relay

import "context"

type NotificationType string

const (
	EventCreated NotificationType = "eventCreated"
	EventUpdated NotificationType = "eventUpdated"
	EventDeleted NotificationType = "eventDeleted"
)

// Notification is the payload broadcast whenever an event or its seat
// inventory changes.
type Notification struct {
	Type    NotificationType `json:"type"`
	Payload any              `json:"payload"`
}

// Publisher is injected into the services so tests can substitute a
// recording or no-op implementation. Delivery is fire-and-forget: services
// log publish failures and never surface them to the caller.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// Fanout publishes to every wrapped publisher, returning the first error
// after all of them were attempted.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, n Notification) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Noop discards notifications.
type Noop struct{}

func (Noop) Publish(context.Context, Notification) error { return nil }
