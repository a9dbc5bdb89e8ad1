package messaging

import (
	"context"
	"testing"
	"time"

	"eshop/contexts/ordering/ports"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	bus.Subscribe(ctx, "orders", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})

	event := ports.EventEnvelope{
		EventID:    "evt-1",
		EventType:  "order_placed",
		OccurredAt: time.Now().UTC(),
		Payload:    []byte(`{"orderId":"ord-1"}`),
	}
	if err := bus.Publish(ctx, "orders", event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "evt-1" || got.EventType != "order_placed" {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not receive the event")
	}
}

func TestPublishWithoutSubscribersSucceeds(t *testing.T) {
	bus := NewBus(nil)

	err := bus.Publish(context.Background(), "orders", ports.EventEnvelope{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("publish to empty topic failed: %v", err)
	}
}

func TestSubscribersAreTopicScoped(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	bus.Subscribe(ctx, "orders", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})

	if err := bus.Publish(ctx, "other-topic", ports.EventEnvelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("subscriber received event from foreign topic: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
