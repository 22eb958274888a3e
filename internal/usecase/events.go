package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/scrim-matchmaker/internal/domain/gamemap"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/player"
	"github.com/riskibarqy/scrim-matchmaker/internal/domain/scrim"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
)

type EventKind string

const (
	EventQueuePopped     EventKind = "queue_popped"
	EventCheckInTimedOut EventKind = "check_in_timed_out"
	EventScrimActivated  EventKind = "scrim_activated"
	EventScrimCompleted  EventKind = "scrim_completed"
)

// Event is a lifecycle notification emitted by the core.
type Event interface {
	Kind() EventKind
	// ScrimRef identifies the scrim the event is about.
	ScrimRef() int64
}

// QueuePoppedEvent is emitted once a scrim is created from four queued players.
type QueuePoppedEvent struct {
	Scrim         scrim.Scrim     `json:"scrim"`
	Players       []player.Player `json:"players"`
	Maps          []gamemap.Map   `json:"maps"`
	ResultFormURL string          `json:"result_form_url,omitempty"`
}

func (QueuePoppedEvent) Kind() EventKind   { return EventQueuePopped }
func (e QueuePoppedEvent) ScrimRef() int64 { return e.Scrim.ID }

// CheckInTimedOutEvent is emitted after a check-in deadline cancelled a scrim.
type CheckInTimedOutEvent struct {
	ScrimID           int64   `json:"scrim_id"`
	ScrimUID          string  `json:"scrim_uid"`
	League            string  `json:"league"`
	NoShowPlayerIDs   []int64 `json:"no_show_player_ids"`
	RequeuedPlayerIDs []int64 `json:"requeued_player_ids"`
}

func (CheckInTimedOutEvent) Kind() EventKind   { return EventCheckInTimedOut }
func (e CheckInTimedOutEvent) ScrimRef() int64 { return e.ScrimID }

// ScrimActivatedEvent is emitted when the fourth player checks in.
type ScrimActivatedEvent struct {
	ScrimID   int64   `json:"scrim_id"`
	ScrimUID  string  `json:"scrim_uid"`
	League    string  `json:"league"`
	PlayerIDs []int64 `json:"player_ids"`
}

func (ScrimActivatedEvent) Kind() EventKind   { return EventScrimActivated }
func (e ScrimActivatedEvent) ScrimRef() int64 { return e.ScrimID }

// ScrimCompletedEvent is emitted when a scrim result is accepted.
type ScrimCompletedEvent struct {
	ScrimID    int64     `json:"scrim_id"`
	ScrimUID   string    `json:"scrim_uid"`
	League     string    `json:"league"`
	PlayerIDs  []int64   `json:"player_ids"`
	WinnerTeam *int      `json:"winner_team,omitempty"`
	At         time.Time `json:"completed_at"`
}

func (ScrimCompletedEvent) Kind() EventKind   { return EventScrimCompleted }
func (e ScrimCompletedEvent) ScrimRef() int64 { return e.ScrimID }

// EventHandler consumes one event. Returned errors are logged, never retried.
type EventHandler func(ctx context.Context, event Event) error

// EventPublisher is what the lifecycle services need from the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// EventBus fans events out to subscribers. With workers > 0 handlers run on
// a bounded ants pool; with workers == 0 they run inline on Publish.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventKind][]EventHandler
	all      []EventHandler
	pool     *ants.Pool
	inflight sync.WaitGroup
	logger   *logging.Logger
}

func NewEventBus(workers int, logger *logging.Logger) (*EventBus, error) {
	if logger == nil {
		logger = logging.Default()
	}

	bus := &EventBus{
		handlers: make(map[EventKind][]EventHandler),
		logger:   logger.Named("events"),
	}
	if workers > 0 {
		pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
		if err != nil {
			return nil, fmt.Errorf("create event worker pool: %w", err)
		}
		bus.pool = pool
	}

	return bus, nil
}

func (b *EventBus) Subscribe(kind EventKind, handler EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers[kind] = append(b.handlers[kind], handler)
	b.mu.Unlock()
}

func (b *EventBus) SubscribeAll(handler EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.all = append(b.all, handler)
	b.mu.Unlock()
}

// Subscribe registers a handler for the event type E.
func Subscribe[E Event](bus *EventBus, handler func(ctx context.Context, event E) error) {
	var zero E
	bus.Subscribe(zero.Kind(), func(ctx context.Context, event Event) error {
		typed, ok := event.(E)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, zero.Kind())
		}
		return handler(ctx, typed)
	})
}

// Publish delivers event to every subscriber. The delivery context keeps the
// caller's values but not its cancellation.
func (b *EventBus) Publish(ctx context.Context, event Event) {
	if b == nil || event == nil {
		return
	}

	b.mu.RLock()
	targets := make([]EventHandler, 0, len(b.handlers[event.Kind()])+len(b.all))
	targets = append(targets, b.handlers[event.Kind()]...)
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	deliveryCtx := context.WithoutCancel(ctx)
	for _, handler := range targets {
		handler := handler
		if b.pool == nil {
			b.deliver(deliveryCtx, handler, event)
			continue
		}

		b.inflight.Add(1)
		if err := b.pool.Submit(func() {
			defer b.inflight.Done()
			b.deliver(deliveryCtx, handler, event)
		}); err != nil {
			b.inflight.Done()
			b.logger.WarnContext(ctx, "event pool rejected delivery, running inline",
				"kind", event.Kind(),
				"scrim_id", event.ScrimRef(),
				"error", err,
			)
			b.deliver(deliveryCtx, handler, event)
		}
	}
}

func (b *EventBus) deliver(ctx context.Context, handler EventHandler, event Event) {
	var err error
	recovered := panics.Try(func() {
		err = handler(ctx, event)
	})
	if recovered != nil {
		b.logger.ErrorContext(ctx, "event handler panicked",
			"kind", event.Kind(),
			"scrim_id", event.ScrimRef(),
			"panic", recovered.String(),
		)
		return
	}
	if err != nil {
		b.logger.WarnContext(ctx, "event handler failed",
			"kind", event.Kind(),
			"scrim_id", event.ScrimRef(),
			"error", err,
		)
	}
}

// Close waits for in-flight deliveries and releases the worker pool.
func (b *EventBus) Close() {
	if b == nil {
		return
	}
	b.inflight.Wait()
	if b.pool != nil {
		b.pool.Release()
	}
}
