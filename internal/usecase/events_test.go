package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

type ctxKey struct{}

func TestEventBus_InlineDeliveryToTypedAndCatchAllHandlers(t *testing.T) {
	bus, err := NewEventBus(0, logging.NewNop())
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}
	defer bus.Close()

	var typed, all atomic.Int32
	var gotValue any
	Subscribe(bus, func(ctx context.Context, e ScrimActivatedEvent) error {
		typed.Add(1)
		gotValue = ctx.Value(ctxKey{})
		if e.ScrimUID != "SCRIM-ABC123" {
			t.Errorf("unexpected scrim uid: %s", e.ScrimUID)
		}
		return nil
	})
	bus.SubscribeAll(func(context.Context, Event) error {
		all.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "trace-1"))
	cancel()
	bus.Publish(ctx, ScrimActivatedEvent{ScrimID: 1, ScrimUID: "SCRIM-ABC123"})
	bus.Publish(ctx, ScrimCompletedEvent{ScrimID: 1})

	if typed.Load() != 1 {
		t.Fatalf("unexpected typed deliveries: got=%d want=1", typed.Load())
	}
	if all.Load() != 2 {
		t.Fatalf("unexpected catch-all deliveries: got=%d want=2", all.Load())
	}
	if gotValue != "trace-1" {
		t.Fatalf("delivery context must keep caller values: %v", gotValue)
	}
}

func TestEventBus_PoolSurvivesFailingAndPanickingHandlers(t *testing.T) {
	bus, err := NewEventBus(2, logging.NewNop())
	if err != nil {
		t.Fatalf("new event bus: %v", err)
	}

	var delivered atomic.Int32
	bus.Subscribe(EventQueuePopped, func(context.Context, Event) error {
		panic("boom")
	})
	bus.Subscribe(EventQueuePopped, func(context.Context, Event) error {
		return errors.New("downstream unavailable")
	})
	bus.Subscribe(EventQueuePopped, func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	})

	for i := 0; i < 10; i++ {
		bus.Publish(t.Context(), QueuePoppedEvent{Scrim: scrim.Scrim{ID: int64(i + 1)}})
	}
	bus.Close()

	if delivered.Load() != 10 {
		t.Fatalf("unexpected deliveries: got=%d want=10", delivered.Load())
	}
}

func TestEventBus_NilIsNoop(t *testing.T) {
	var bus *EventBus
	bus.Publish(context.Background(), ScrimCompletedEvent{ScrimID: 1})
	bus.Close()
}
