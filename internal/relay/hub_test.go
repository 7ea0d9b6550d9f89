package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(4)
	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	err := hub.Publish(context.Background(), Notification{Type: EventCreated, Payload: "hello"})
	assert.NoError(t, err)

	for _, ch := range []<-chan Notification{first, second} {
		select {
		case n := <-ch:
			assert.Equal(t, EventCreated, n.Type)
			assert.Equal(t, "hello", n.Payload)
		default:
			t.Fatal("expected a buffered notification")
		}
	}
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()
	defer cancel()

	ctx := context.Background()
	assert.NoError(t, hub.Publish(ctx, Notification{Type: EventCreated}))
	// Buffer is full now; this publish must drop rather than block.
	assert.NoError(t, hub.Publish(ctx, Notification{Type: EventUpdated}))

	assert.Equal(t, EventCreated, (<-ch).Type)
	select {
	case n := <-ch:
		t.Fatalf("expected dropped notification, got %v", n.Type)
	default:
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub(1)
	ch, cancel := hub.Subscribe()

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// A second cancel and publishes after cancel are harmless.
	cancel()
	assert.NoError(t, hub.Publish(context.Background(), Notification{Type: EventDeleted}))
}

func TestFanout_PublishesToAll(t *testing.T) {
	first := &Recorder{}
	second := &Recorder{}
	fanout := Fanout{first, second}

	err := fanout.Publish(context.Background(), Notification{Type: EventUpdated})

	assert.NoError(t, err)
	assert.Len(t, first.Sent(), 1)
	assert.Len(t, second.Sent(), 1)
}
