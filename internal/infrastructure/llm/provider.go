// Package llm resolves the active text-generation backend from
// configuration. Exactly one backend serves the whole process lifetime;
// selection happens once at startup, not per call.
package llm

import (
	"github.com/quizforge/quizforge/internal/core/domain"
	"github.com/quizforge/quizforge/internal/core/ports"
	"github.com/quizforge/quizforge/internal/infrastructure/llm/huggingface"
	"github.com/quizforge/quizforge/internal/infrastructure/llm/ollama"
	"github.com/quizforge/quizforge/internal/infrastructure/llm/openrouter"
)

type Settings struct {
	OllamaEnabled      bool
	OllamaURL          string
	OllamaDefaultModel string
	OllamaTaskModels   map[string]string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
	HuggingFaceModel   string
}

// ResolveProvider picks the backend by strict priority: local inference if
// explicitly enabled, then hosted backends by credential presence. With no
// usable backend every generation call would be pointless, so resolution
// fails fast with domain.ErrNoProvider.
func ResolveProvider(s Settings) (ports.TextGenerator, error) {
	switch {
	case s.OllamaEnabled:
		return ollama.New(s.OllamaURL, s.OllamaDefaultModel, s.OllamaTaskModels), nil
	case s.OpenRouterAPIKey != "":
		return openrouter.New(s.OpenRouterAPIKey, s.OpenRouterBaseURL, s.OpenRouterModel, nil), nil
	case s.HuggingFaceAPIKey != "":
		return huggingface.New(s.HuggingFaceAPIKey, s.HuggingFaceBaseURL, s.HuggingFaceModel), nil
	default:
		return nil, domain.ErrNoProvider
	}
}
