package aiprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/api"
	"github.com/bugsnap/backend/pkg/xcontext"
)

// Message is one chat turn. Content is either a plain string or a list of
// multimodal parts (api.Array of api.JSON) for image inputs.
type Message struct {
	Role    string
	Content any
}

// IEndpoint is the chat-completion surface of the AI provider.
type IEndpoint interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
}

type Endpoint struct {
	apiGenerator api.Generator
	cfg          config.AIConfigs
}

func New(cfg config.AIConfigs) *Endpoint {
	return &Endpoint{
		apiGenerator: api.NewGenerator(cfg.BaseURL),
		cfg:          cfg,
	}
}

func NewWithGenerator(cfg config.AIConfigs, generator api.Generator) *Endpoint {
	return &Endpoint{apiGenerator: generator, cfg: cfg}
}

func (e *Endpoint) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	body := make(api.Array, 0, len(messages))
	for _, m := range messages {
		body = append(body, map[string]any{
			"role":    m.Role,
			"content": m.Content,
		})
	}

	resp, err := e.apiGenerator.New("/v1/chat/completions").
		Body(api.JSON{
			"model":    e.cfg.Model,
			"messages": body,
		}).
		POST(ctx, api.OAuth2("Bearer", e.cfg.APIKey))
	if err != nil {
		return "", err
	}

	if !resp.OK() {
		xcontext.Logger(ctx).Errorf("AI provider rejected the request: %v", resp.Body)
		return "", fmt.Errorf("invalid status code %d", resp.Code)
	}

	content, err := extractContent(resp)
	if err != nil {
		return "", err
	}

	return content, nil
}

func extractContent(resp *api.Response) (string, error) {
	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("invalid body format")
	}

	choices, err := body.GetArray("choices")
	if err != nil {
		return "", err
	}

	if len(choices) == 0 {
		return "", errors.New("no completion returned")
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", errors.New("invalid choice format")
	}

	content, err := api.JSON(choice).GetString("message.content")
	if err != nil {
		return "", err
	}

	if content == "" {
		return "", errors.New("empty completion")
	}

	return content, nil
}

type MockEndpoint struct {
	ChatCompletionFunc func(ctx context.Context, messages []Message) (string, error)
}

func (m *MockEndpoint) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, messages)
	}
	panic("not implemented")
}
