package domain

import "strings"

// IntentKind discriminates what an inbound message body triggers.
type IntentKind int

const (
	IntentPlain IntentKind = iota
	IntentSummarize
	IntentQuestion
	IntentEnvironment
)

// Intent is the transient classification result for one message body.
// Text carries the remainder after the /question prefix; it may be
// empty, in which case the orchestrator replies with a usage hint
// instead of calling the completion service.
type Intent struct {
	Kind IntentKind
	Text string
}

const questionPrefix = "/question"

// Classify decides whether a raw message body is a plain message or one
// of the recognized commands. Matching runs on a trimmed, lowercased
// copy; the original casing is kept for the question text. The prefix
// check runs after the exact matches so /question cannot shadow them.
// Classify is pure: no side effects, same input same result.
func Classify(raw string) Intent {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "/summarize":
		return Intent{Kind: IntentSummarize}
	case "/environment":
		return Intent{Kind: IntentEnvironment}
	}
	if strings.HasPrefix(strings.ToLower(trimmed), questionPrefix) {
		text := strings.TrimSpace(trimmed[len(questionPrefix):])
		return Intent{Kind: IntentQuestion, Text: text}
	}
	return Intent{Kind: IntentPlain}
}
