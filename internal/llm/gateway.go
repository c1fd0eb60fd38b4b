package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultMaxTokens is used when a Gateway does not override MaxTokens (§4.3).
const DefaultMaxTokens = 8192

// EmptyResponseError is returned when the backend responds with zero choices.
type EmptyResponseError struct{}

func (EmptyResponseError) Error() string { return "llm: empty response (no choices)" }

// StatusError wraps a non-2xx response from the chat-completion backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: backend status %d: %s", e.StatusCode, e.Body)
}

// Gateway is the single-call LLM primitive (C4): given a system instruction
// and user context, return the assistant's text. Temperature is fixed at 0
// for determinism; MaxTokens defaults to DefaultMaxTokens when unset.
type Gateway struct {
	Client    Client
	Model     string
	MaxTokens int
}

// Complete issues one chat-completion call with the given system instruction
// and user context and returns the assistant's message content.
func (g *Gateway) Complete(ctx context.Context, instruction string, userContext string) (string, error) {
	if g.Client == nil {
		return "", errors.New("llm: gateway has no client configured")
	}
	if g.Model == "" {
		return "", errors.New("llm: gateway has no model configured")
	}
	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: userContext},
		},
		Temperature: 0.0,
		MaxTokens:   maxTokens,
		N:           1,
	}

	resp, err := g.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", EmptyResponseError{}
	}
	return resp.Choices[0].Message.Content, nil
}
