// Package ai wraps the remote completion service used by the command
// pipeline.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"chimchat/contract"
	apperrors "chimchat/errors"
)

// Completion calls an OpenAI-compatible chat completion endpoint.
// A custom base URL supports proxies and local servers. Every call is
// bounded by a timeout so a stuck backend cannot pin a command
// goroutine forever.
type Completion struct {
	client       *openai.Client
	defaultModel string
	timeout      time.Duration
}

func NewCompletion(apiKey, baseURL, defaultModel string, timeout time.Duration) *Completion {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		// OpenAI-compatible APIs expect the /v1 suffix
		if !strings.HasSuffix(baseURL, "/v1") && !strings.HasSuffix(baseURL, "/v1/") {
			baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
		}
		config.BaseURL = baseURL
	}
	return &Completion{
		client:       openai.NewClientWithConfig(config),
		defaultModel: defaultModel,
		timeout:      timeout,
	}
}

// Complete sends the role-tagged prompts and returns the generated
// text. An empty model falls back to the configured default. A response
// without choices is treated as empty text, not as an error.
func (c *Completion) Complete(ctx context.Context, prompts []contract.Prompt, model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(prompts),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(prompts []contract.Prompt) []openai.ChatCompletionMessage {
	return lo.Map(prompts, func(p contract.Prompt, _ int) openai.ChatCompletionMessage {
		return openai.ChatCompletionMessage{Role: p.Role, Content: p.Content}
	})
}
