package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quizforge/quizforge/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-70b-8192"

	// Low temperature keeps the fact-checking pass close to deterministic.
	temperature = 0.1
)

// Checker runs the batch fact-checking pass against the Groq
// OpenAI-compatible endpoint and returns only the sparse corrections.
type Checker struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Checker {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &Checker{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Checker) Check(ctx context.Context, questions []domain.Question) ([]domain.Correction, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	prompt, err := buildFactCheckPrompt(questions)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("groq fact check: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("groq fact check: no choices in response")
	}

	var result struct {
		CorrectedQuestions []domain.Correction `json:"correctedQuestions"`
	}
	content := extractJSONObject(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parse fact check response: %w", err)
	}
	return result.CorrectedQuestions, nil
}

func buildFactCheckPrompt(questions []domain.Question) (string, error) {
	questionsJSON, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal questions: %w", err)
	}

	return fmt.Sprintf(`You are a highly knowledgeable fact-checking assistant. Your task is to review and verify the factual accuracy of the following quiz questions and their answers.

Questions to verify:
%s

For each question, please verify:
1. Is the question factually accurate?
2. Are all options plausible?
3. Is the marked correct answer truly correct?

If there are ANY factual errors, please provide corrections for those specific questions.

Respond in the following JSON format ONLY:
{
  "correctedQuestions": [
    {
      "originalIndex": 0,
      "question": "corrected question text if needed",
      "options": ["option1", "option2", "option3", "option4"],
      "correctIndex": 0
    }
  ]
}

Include ONLY questions that needed corrections.
If all questions are factually accurate, return an empty "correctedQuestions" array.`, string(questionsJSON)), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
