package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quizforge/quizforge/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultModel   = "mistralai/Mistral-7B-Instruct-v0.1"

	temperature = 0.7
	maxTokens   = 1024
)

// Client is the hosted-secondary backend. The inference API keys the URL by
// model and answers with a one-element array carrying generated_text; task
// hints are accepted but there is a single model for every task.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Name() string {
	return "huggingface"
}

func (c *Client) Generate(ctx context.Context, prompt, _ string) (string, error) {
	reqBody := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"temperature":      temperature,
			"max_new_tokens":   maxTokens,
			"return_full_text": false,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := c.baseURL + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrProviderUnreachable, "huggingface generate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		msg := strings.TrimSpace(string(respBody))
		if resp.StatusCode == http.StatusNotFound {
			return "", &domain.ModelNotFoundError{Backend: c.Name(), Model: c.model}
		}
		return "", fmt.Errorf("huggingface generate status: %s: %s", resp.Status, msg)
	}

	var response []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(response) == 0 {
		return "", domain.WrapError(domain.ErrEmptyGeneration, "huggingface generate", errors.New("empty response array"))
	}

	text := strings.TrimSpace(response[0].GeneratedText)
	if text == "" {
		return "", domain.WrapError(domain.ErrEmptyGeneration, "huggingface generate", errors.New("empty generated_text"))
	}
	return text, nil
}
