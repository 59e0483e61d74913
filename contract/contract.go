//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chimchat/domain"
	"chimchat/domain/event"
	"context"
	"encoding/json"
	"reflect"
)

// IMessageRepository is the durable, append-only message store.
type IMessageRepository interface {
	Store(msg domain.Message) error
	// FetchRecent returns at most n of the latest messages in
	// chronological order.
	FetchRecent(n int) ([]domain.Message, error)
}

// Roles accepted by the completion service.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Prompt is one role-tagged message sent to the completion service.
type Prompt struct {
	Role    string
	Content string
}

// ICompleter calls the remote AI text-generation endpoint.
// An empty model selects the configured default.
type ICompleter interface {
	Complete(ctx context.Context, prompts []Prompt, model string) (string, error)
}

// ISensor reads a JSON subtree of the environmental store at a key
// path. Implementations return nil when the subtree is null or absent.
type ISensor interface {
	ReadPath(ctx context.Context, path string) (json.RawMessage, error)
}

// ICensor masks forbidden words in a message body.
type ICensor interface {
	Censor(original string) string
}

// EventSink receives broadcast events for a single connected party.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks connected sessions and delivers events to them.
// Broadcast is best-effort: delivery order across sessions is not
// guaranteed, only that every event reaches every current party.
type IRegistry interface {
	Subscribe(sessionID string, sink EventSink)
	Unsubscribe(sessionID string)
	Broadcast(ctx context.Context, e event.DomainEvent)
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
