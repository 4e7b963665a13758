package agent

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// ErrAPIKeyMissing indicates the OpenAI API key was not found in the
// environment variable OPENAI_API_KEY.
var ErrAPIKeyMissing = errors.New("OpenAI API key not found in environment variable OPENAI_API_KEY")

// OpenAIChannel is a Channel backed directly by the OpenAI API, used
// when the session runs standalone with no host to relay messages.
// Context pushes accumulate into a system block attached to the next
// user turn; user turns trigger a completion whose text is handed to
// the OnResponse callback.
type OpenAIChannel struct {
	client *openai.Client
	model  string

	// OnResponse receives the agent's reply to each user turn. Nil
	// discards replies.
	OnResponse func(text string)

	mu      sync.Mutex
	context string
}

// NewOpenAIChannel creates a standalone agent channel. The API key is
// read from OPENAI_API_KEY and the model from OPENAI_MODEL (defaulting
// to gpt-4o).
func NewOpenAIChannel() (*OpenAIChannel, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("OpenAI API key missing")
		return nil, ErrAPIKeyMissing
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4o
		slog.Info("OPENAI_MODEL not set, defaulting", "model", model)
	}

	return &OpenAIChannel{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// PushContext stores the context block for the next user turn. It never
// touches the network, so a silent sync stays silent.
func (c *OpenAIChannel) PushContext(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.context = text
	return nil
}

// SendUserTurn sends the message (prefixed with the latest pushed
// context, if any) as a chat completion.
func (c *OpenAIChannel) SendUserTurn(ctx context.Context, text string) error {
	c.mu.Lock()
	contextBlock := c.context
	c.mu.Unlock()

	messages := []openai.ChatCompletionMessage{}
	if contextBlock != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: contextBlock,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.Warn("OpenAI response missing choices or content")
		return errors.New("LLM returned empty response")
	}

	if c.OnResponse != nil {
		c.OnResponse(resp.Choices[0].Message.Content)
	}
	return nil
}
