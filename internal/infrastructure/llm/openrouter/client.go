package openrouter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quizforge/quizforge/internal/core/domain"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "mistralai/mistral-7b-instruct"

	temperature = 0.7
	maxTokens   = 1024
)

// Client is the hosted-primary backend. OpenRouter speaks the OpenAI chat
// completion protocol, so the client is a thin model-selection layer over
// go-openai with a custom base URL.
type Client struct {
	client       *openai.Client
	defaultModel string
	taskModels   map[string]string
}

func New(apiKey, baseURL, defaultModel string, taskModels map[string]string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
		taskModels:   taskModels,
	}
}

func (c *Client) Name() string {
	return "openrouter"
}

func (c *Client) Generate(ctx context.Context, prompt, taskHint string) (string, error) {
	model := c.modelFor(taskHint)
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", c.mapError(err, model)
	}

	if len(resp.Choices) == 0 {
		return "", domain.WrapError(domain.ErrEmptyGeneration, "openrouter generate", errors.New("no choices in response"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", domain.WrapError(domain.ErrEmptyGeneration, "openrouter generate", errors.New("empty message content"))
	}
	return text, nil
}

func (c *Client) modelFor(taskHint string) string {
	if model, ok := c.taskModels[taskHint]; ok && model != "" {
		return model
	}
	return c.defaultModel
}

func (c *Client) mapError(err error, model string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusNotFound {
			return &domain.ModelNotFoundError{Backend: c.Name(), Model: model}
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.WrapError(domain.ErrProviderUnreachable, "openrouter generate", err)
}
