package runtime_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"chimchat/domain/event"
	"chimchat/runtime"
)

type failingSink struct {
	calls int
}

func (s *failingSink) Consume(context.Context, event.DomainEvent) error {
	s.calls++
	return fmt.Errorf("connection gone")
}

func Test_Broadcast_Reaches_Every_Subscribed_Session(t *testing.T) {
	req := require.New(t)
	registry := runtime.NewRegistry(discardLogger())

	alice := &recordingSink{}
	bob := &recordingSink{}
	registry.Subscribe("session-alice", alice)
	registry.Subscribe("session-bob", bob)

	registry.Broadcast(context.Background(),
		event.MessageBroadcast{Name: "Alice", Message: "hello"})

	req.Len(alice.events, 1)
	req.Len(bob.events, 1)
}

func Test_Unsubscribed_Session_Stops_Receiving_Events(t *testing.T) {
	req := require.New(t)
	registry := runtime.NewRegistry(discardLogger())

	alice := &recordingSink{}
	bob := &recordingSink{}
	registry.Subscribe("session-alice", alice)
	registry.Subscribe("session-bob", bob)
	registry.Unsubscribe("session-bob")

	registry.Broadcast(context.Background(),
		event.MessageBroadcast{Name: "Alice", Message: "still there?"})

	req.Len(alice.events, 1)
	req.Empty(bob.events)
}

func Test_Failing_Sink_Does_Not_Block_The_Others(t *testing.T) {
	req := require.New(t)
	registry := runtime.NewRegistry(discardLogger())

	broken := &failingSink{}
	healthy := &recordingSink{}
	registry.Subscribe("session-broken", broken)
	registry.Subscribe("session-healthy", healthy)

	registry.Broadcast(context.Background(),
		event.TypingChanged{Name: "AI", Typing: true})

	req.Equal(1, broken.calls)
	req.Len(healthy.events, 1)
}
