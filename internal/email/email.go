package email

import (
	"context"
	"fmt"

	"github.com/dkurenkov/eventease/internal/relay"
)

// Sender is the notification delivery stub used by the worker. Real delivery
// lives outside this service.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(_ context.Context, n relay.Notification) error {
	fmt.Printf("notify subscribers: %s %v\n", n.Type, n.Payload)
	return nil
}
