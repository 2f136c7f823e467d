package analytics

import (
	"log"

	"knowledgegate/internal/models"
)

// Reporter receives the three telemetry event kinds. Every implementation is
// best-effort: failures are logged and swallowed so telemetry can never affect
// game state or block a transition.
type Reporter interface {
	TrackSession(ev models.SessionEvent)
	TrackRound(ev models.RoundEvent)
	TrackCompletion(ev models.CompletionEvent)
}

// Store is the persistence surface a StoreReporter writes through.
type Store interface {
	CreateSession(ev models.SessionEvent) error
	RecordRound(ev models.RoundEvent) error
	CompleteSession(ev models.CompletionEvent) error
}

// StoreReporter writes telemetry to the analytics store.
type StoreReporter struct {
	store Store
}

// NewStoreReporter creates a reporter backed by the given store.
func NewStoreReporter(store Store) *StoreReporter {
	return &StoreReporter{store: store}
}

func (r *StoreReporter) TrackSession(ev models.SessionEvent) {
	if err := r.store.CreateSession(ev); err != nil {
		log.Printf("session tracking failed (non-blocking): session=%s: %v", ev.SessionID, err)
	}
}

func (r *StoreReporter) TrackRound(ev models.RoundEvent) {
	if err := r.store.RecordRound(ev); err != nil {
		log.Printf("round tracking failed (non-blocking): session=%s round=%d: %v",
			ev.SessionID, ev.RoundNumber, err)
	}
}

func (r *StoreReporter) TrackCompletion(ev models.CompletionEvent) {
	if err := r.store.CompleteSession(ev); err != nil {
		log.Printf("completion tracking failed (non-blocking): session=%s: %v", ev.SessionID, err)
	}
}

// NopReporter discards all events. Used when analytics is not configured and
// in tests.
type NopReporter struct{}

func (NopReporter) TrackSession(models.SessionEvent)       {}
func (NopReporter) TrackRound(models.RoundEvent)           {}
func (NopReporter) TrackCompletion(models.CompletionEvent) {}
