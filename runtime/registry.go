package runtime

import (
	"context"
	"log/slog"
	"sync"

	"chimchat/contract"
	"chimchat/domain/event"
)

// Registry tracks the event sink of every connected session and fans
// broadcast events out to all of them. There is a single logical room:
// every event reaches every currently connected party.
//
// Registry is safe for concurrent use by multiple goroutines.
type Registry struct {
	mu       sync.RWMutex
	log      *slog.Logger
	sessions map[string]contract.EventSink
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{log: log, sessions: make(map[string]contract.EventSink)}
}

// Subscribe registers a session's active connection.
func (r *Registry) Subscribe(sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = sink
}

// Unsubscribe removes a disconnected session so its sink stops
// receiving events and can be collected.
func (r *Registry) Unsubscribe(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Broadcast delivers e to a snapshot of the current sinks. Delivery is
// best-effort: a failing sink is logged and skipped, never retried, and
// one slow session cannot hold up the others.
func (r *Registry) Broadcast(ctx context.Context, e event.DomainEvent) {
	for _, s := range r.snapshot() {
		if err := s.Consume(ctx, e); err != nil {
			r.log.Warn("sink rejected event", "event", e.EventName(), "error", err)
		}
	}
}

func (r *Registry) snapshot() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sinks := make([]contract.EventSink, 0, len(r.sessions))
	for _, s := range r.sessions {
		sinks = append(sinks, s)
	}
	return sinks
}
