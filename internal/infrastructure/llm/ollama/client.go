package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

const (
	temperature = 0.7
	maxTokens   = 1024
)

// Client is the local-inference backend. Task hints select a per-task model
// override; the wire protocol is the same for every task.
type Client struct {
	baseURL      string
	defaultModel string
	taskModels   map[string]string
	httpClient   *http.Client
}

func New(baseURL, defaultModel string, taskModels map[string]string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		taskModels:   taskModels,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Name() string {
	return "ollama"
}

func (c *Client) Generate(ctx context.Context, prompt, taskHint string) (string, error) {
	model := c.modelFor(taskHint)
	reqBody := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", c.mapError(err, model)
	}

	text := strings.TrimSpace(response.Response)
	if text == "" {
		return "", domain.WrapError(domain.ErrEmptyGeneration, "ollama generate", errors.New("empty response field"))
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
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound && strings.Contains(strings.ToLower(statusErr.Body), "not found") {
			return &domain.ModelNotFoundError{Backend: c.Name(), Model: model}
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.WrapError(domain.ErrProviderUnreachable, "ollama generate", err)
}
