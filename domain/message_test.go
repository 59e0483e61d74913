package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_NewInbound_Assigns_Identity_And_Timestamp(t *testing.T) {
	req := require.New(t)
	before := time.Now().UTC()

	msg := NewInbound("Alice", "hello world")

	req.Equal("Alice", msg.Author)
	req.Equal("hello world", msg.Content)
	req.NotEqual("00000000-0000-0000-0000-000000000000", msg.ID.String())
	req.False(msg.At.Before(before))
}

func Test_NewInbound_Coerces_Blank_Name_To_Anonymous(t *testing.T) {
	req := require.New(t)

	req.Equal(AnonymousAuthor, NewInbound("", "hi").Author)
	req.Equal(AnonymousAuthor, NewInbound("   ", "hi").Author)
}

func Test_NewInbound_Trims_Fields(t *testing.T) {
	req := require.New(t)

	msg := NewInbound("  Bob  ", "  spaced out  ")

	req.Equal("Bob", msg.Author)
	req.Equal("spaced out", msg.Content)
}

func Test_NewAIMessage_Uses_The_AI_Author(t *testing.T) {
	req := require.New(t)

	msg := NewAIMessage("here is a summary")

	req.Equal(AIAuthor, msg.Author)
	req.Equal("here is a summary", msg.Content)
}
