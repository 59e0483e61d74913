package services

import (
	"context"

	"chimchat/contract"
	"chimchat/domain"
	"chimchat/runtime"
)

type IChatService interface {
	PostMessage(ctx context.Context, name, message string)
	Join(ctx context.Context, sessionID string, sink contract.EventSink)
	Leave(sessionID string)
}

// ChatService is the thin facade the transport talks to. All behavior
// lives in the orchestrator and the registry.
type ChatService struct {
	orchestrator *runtime.Orchestrator
	registry     contract.IRegistry
}

func NewChatService(o *runtime.Orchestrator, registry contract.IRegistry) *ChatService {
	return &ChatService{orchestrator: o, registry: registry}
}

func (s *ChatService) PostMessage(ctx context.Context, name, message string) {
	s.orchestrator.HandleInbound(ctx, domain.NewInbound(name, message))
}

// Join registers the connection's sink so it receives broadcasts, then
// privately replays recent history to it.
func (s *ChatService) Join(ctx context.Context, sessionID string, sink contract.EventSink) {
	s.registry.Subscribe(sessionID, sink)
	s.orchestrator.OnConnect(ctx, sink)
}

func (s *ChatService) Leave(sessionID string) {
	s.registry.Unsubscribe(sessionID)
}
