// Package sink provides EventSink implementations for delivering
// broadcast events to their consumers.
package sink

import (
	"context"
	"log/slog"

	"chimchat/domain/event"
)

// ConnSink buffers events for a single websocket connection.
// Consume never blocks the broadcast path: when the connection cannot
// keep up, the event is dropped and logged. Delivery is best-effort by
// contract, the relay makes no guarantee beyond eventual delivery to
// healthy connections.
type ConnSink struct {
	log    *slog.Logger
	Events chan event.DomainEvent
}

func NewConnSink(log *slog.Logger, bufferSize int) *ConnSink {
	return &ConnSink{log: log, Events: make(chan event.DomainEvent, bufferSize)}
}

func (s *ConnSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("connection buffer full, dropping event", "event", e.EventName())
		return nil
	}
}
