// Package event defines the payloads delivered through the broadcast hub.
package event

// DomainEvent is implemented by every payload the hub can deliver.
// EventName is the wire-level event identifier seen by clients.
type DomainEvent interface {
	EventName() string
}

// MessageBroadcast carries one chat message to connected parties.
type MessageBroadcast struct {
	Name    string
	Message string
}

func (MessageBroadcast) EventName() string { return "chatMessage" }

// TypingChanged is the advisory UI hint emitted around AI command
// handling. It is never persisted and carries no acknowledgment or
// backpressure: interleaved signals from concurrent commands are fine.
type TypingChanged struct {
	Name   string
	Typing bool
}

func (TypingChanged) EventName() string { return "typing" }
