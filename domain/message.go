// Package domain contains core concepts of the chat relay.
// This file defines Message and its construction rules.
// Messages are immutable once persisted.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AIAuthor is the display name of the synthetic participant that posts
// every reply produced by the command pipeline.
const AIAuthor = "AI"

// AnonymousAuthor replaces a blank display name on inbound messages.
const AnonymousAuthor = "Anonymous"

// Message represents an immutable chat event.
type Message struct {
	ID      uuid.UUID // unique identifier
	Author  string
	Content string
	At      time.Time
}

// NewInbound builds a Message from raw client input. Both fields are
// trimmed and the author falls back to AnonymousAuthor when blank.
// The timestamp is always assigned server-side.
func NewInbound(name, content string) Message {
	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousAuthor
	}
	return Message{
		ID:      uuid.New(),
		Author:  name,
		Content: strings.TrimSpace(content),
		At:      time.Now().UTC(),
	}
}

// NewAIMessage builds a Message authored by the AI participant.
func NewAIMessage(content string) Message {
	return Message{
		ID:      uuid.New(),
		Author:  AIAuthor,
		Content: strings.TrimSpace(content),
		At:      time.Now().UTC(),
	}
}
