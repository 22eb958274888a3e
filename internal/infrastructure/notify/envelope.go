package notify

import (
	"fmt"
	"time"

	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

// Envelope is the wire shape every sink emits.
type Envelope struct {
	Kind       usecase.EventKind `json:"kind"`
	OccurredAt time.Time         `json:"occurred_at"`
	Payload    usecase.Event     `json:"payload"`
}

func NewEnvelope(event usecase.Event, at time.Time) Envelope {
	return Envelope{
		Kind:       event.Kind(),
		OccurredAt: at.UTC(),
		Payload:    event,
	}
}

// DeduplicationID is stable per event kind and scrim, so one scrim emits each
// lifecycle notification at most once downstream.
func DeduplicationID(event usecase.Event) string {
	return fmt.Sprintf("%s-%d", event.Kind(), event.ScrimRef())
}
