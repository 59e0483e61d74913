// Package runtime hosts the command orchestrator: the layer between the
// transport and the gateways that decides what each inbound message
// triggers, and keeps the broadcast path alive through every failure.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"chimchat/contract"
	"chimchat/domain"
	"chimchat/domain/event"
)

// User-facing replies for the expected degraded branches. These are
// chat messages authored by the AI participant, never protocol errors.
const (
	ReplyEmptyQuestion = "Please provide a question after /question."
	ReplyNoSensor      = "The environment sensor store is not configured, so there is no data to analyze."
	ReplyApology       = "Sorry, I ran into an error handling that request."
)

const (
	summarizeInstruction = "You summarize group chat conversations. " +
		"Produce a concise summary of the transcript, at most 8 bullet points."
	questionInstruction = "You answer questions inside a group chat. " +
		"Use the recent transcript if it is relevant, otherwise answer directly."
	environmentInstruction = "You analyze IoT sensor readings. " +
		"Review the JSON snapshot and describe notable values, trends, or anomalies."
)

// Limits groups the history window sizes of the command pipeline.
type Limits struct {
	HistoryReplay   int // messages replayed privately to a new connection
	SummaryContext  int // transcript size for /summarize
	QuestionContext int // transcript size for /question
}

// Orchestrator receives every inbound chat event, persists and
// broadcasts it, and runs the AI pipeline for recognized commands.
// All collaborators are injected so tests can substitute mocks; sensor
// and censor are nil when their feature is unconfigured.
type Orchestrator struct {
	log        *slog.Logger
	messages   contract.IMessageRepository
	completer  contract.ICompleter
	sensor     contract.ISensor
	censor     contract.ICensor
	registry   contract.IRegistry
	sensorPath string
	limits     Limits
}

func NewOrchestrator(log *slog.Logger, messages contract.IMessageRepository,
	completer contract.ICompleter, sensor contract.ISensor, censor contract.ICensor,
	registry contract.IRegistry, sensorPath string, limits Limits) *Orchestrator {
	return &Orchestrator{
		log:        log,
		messages:   messages,
		completer:  completer,
		sensor:     sensor,
		censor:     censor,
		registry:   registry,
		sensorPath: sensorPath,
		limits:     limits,
	}
}

// HandleInbound runs the full pipeline for one inbound message:
// persist, broadcast, classify, and for commands kick off the AI
// response on its own goroutine. It never returns an error: every
// failure is absorbed here so the caller's read loop stays alive.
func (o *Orchestrator) HandleInbound(ctx context.Context, msg domain.Message) {
	if o.censor != nil {
		msg.Content = o.censor.Censor(msg.Content)
	}

	// Best effort: a degraded store must not take the relay down with
	// it. The broadcast below happens regardless of this outcome.
	if err := o.messages.Store(msg); err != nil {
		o.log.Error("failed to persist inbound message", "author", msg.Author, "error", err)
	}

	o.registry.Broadcast(ctx, event.MessageBroadcast{Name: msg.Author, Message: msg.Content})

	intent := domain.Classify(msg.Content)
	if intent.Kind == domain.IntentPlain {
		return
	}

	// Commands from different sessions run independently, with no
	// queueing or mutual exclusion between them. A disconnect must not
	// cancel a command already in flight.
	go o.runCommand(context.WithoutCancel(ctx), intent)
}

// OnConnect replays recent history privately to a newly connected
// party, oldest first. A fetch failure downgrades to an empty replay;
// the connection itself always proceeds.
func (o *Orchestrator) OnConnect(ctx context.Context, sink contract.EventSink) {
	history, err := o.messages.FetchRecent(o.limits.HistoryReplay)
	if err != nil {
		o.log.Error("failed to fetch history for replay", "error", err)
		return
	}
	for _, m := range history {
		if err := sink.Consume(ctx, event.MessageBroadcast{Name: m.Author, Message: m.Content}); err != nil {
			o.log.Warn("history replay interrupted", "error", err)
			return
		}
	}
}

// runCommand wraps one command in the typing indicator and the failure
// boundary. The typing release is a defer, so every path out of here,
// success, expected branch, error, or panic, broadcasts exactly one
// typing-off.
func (o *Orchestrator) runCommand(ctx context.Context, intent domain.Intent) {
	o.registry.Broadcast(ctx, event.TypingChanged{Name: domain.AIAuthor, Typing: true})
	defer o.registry.Broadcast(ctx, event.TypingChanged{Name: domain.AIAuthor, Typing: false})

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("command handler panicked", "panic", r)
			o.sendAIReply(ctx, ReplyApology)
		}
	}()

	if err := o.dispatch(ctx, intent); err != nil {
		o.log.Error("command handling failed", "error", err)
		o.sendAIReply(ctx, ReplyApology)
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, intent domain.Intent) error {
	switch intent.Kind {
	case domain.IntentSummarize:
		return o.summarize(ctx)
	case domain.IntentQuestion:
		return o.question(ctx, intent.Text)
	case domain.IntentEnvironment:
		return o.environment(ctx)
	default:
		return nil
	}
}

func (o *Orchestrator) summarize(ctx context.Context) error {
	text, err := o.completer.Complete(ctx, []contract.Prompt{
		{Role: contract.RoleSystem, Content: summarizeInstruction},
		{Role: contract.RoleUser, Content: o.transcript(o.limits.SummaryContext)},
	}, "")
	if err != nil {
		return err
	}
	o.sendAIReply(ctx, text)
	return nil
}

func (o *Orchestrator) question(ctx context.Context, text string) error {
	// Expected branch, not an error: prompt for input without spending
	// a completion call.
	if text == "" {
		o.sendAIReply(ctx, ReplyEmptyQuestion)
		return nil
	}
	answer, err := o.completer.Complete(ctx, []contract.Prompt{
		{Role: contract.RoleSystem, Content: questionInstruction},
		{Role: contract.RoleUser, Content: fmt.Sprintf("Transcript:\n%s\n\nQuestion: %s",
			o.transcript(o.limits.QuestionContext), text)},
	}, "")
	if err != nil {
		return err
	}
	o.sendAIReply(ctx, answer)
	return nil
}

func (o *Orchestrator) environment(ctx context.Context) error {
	// Expected branch when the sensor store was never configured.
	if o.sensor == nil {
		o.sendAIReply(ctx, ReplyNoSensor)
		return nil
	}
	raw, err := o.sensor.ReadPath(ctx, o.sensorPath)
	if err != nil {
		return err
	}
	text, err := o.completer.Complete(ctx, []contract.Prompt{
		{Role: contract.RoleSystem, Content: environmentInstruction},
		{Role: contract.RoleUser, Content: prettyJSON(raw)},
	}, "")
	if err != nil {
		return err
	}
	o.sendAIReply(ctx, text)
	return nil
}

// transcript renders the last n stored messages as "name: message"
// lines. A storage failure degrades to an empty transcript instead of
// aborting the command.
func (o *Orchestrator) transcript(n int) string {
	history, err := o.messages.FetchRecent(n)
	if err != nil {
		o.log.Error("failed to fetch history, using empty transcript", "error", err)
		return ""
	}
	lines := lo.Map(history, func(m domain.Message, _ int) string {
		return fmt.Sprintf("%s: %s", m.Author, m.Content)
	})
	return strings.Join(lines, "\n")
}

// sendAIReply persists (best-effort) and broadcasts one AI-authored
// message, the single user-visible shape of every pipeline outcome.
func (o *Orchestrator) sendAIReply(ctx context.Context, text string) {
	msg := domain.NewAIMessage(text)
	if err := o.messages.Store(msg); err != nil {
		o.log.Error("failed to persist AI reply", "error", err)
	}
	o.registry.Broadcast(ctx, event.MessageBroadcast{Name: msg.Author, Message: msg.Content})
}

// prettyJSON renders the sensor snapshot for the completion prompt.
// A nil subtree becomes an empty object; undecodable payloads pass
// through as-is rather than failing the command.
func prettyJSON(raw json.RawMessage) string {
	if raw == nil {
		return "{}"
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}
