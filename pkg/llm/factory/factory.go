package factory

import (
	"fmt"

	"trip-assistant-be/pkg/llm"
	"trip-assistant-be/pkg/llm/anthropic"
	"trip-assistant-be/pkg/llm/gemini"
	"trip-assistant-be/pkg/llm/ollama"
)

// Settings selects and configures one LLM backend
type Settings struct {
	Provider string // "gemini", "ollama" or "anthropic"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "gemini", "":
		if s.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewProvider(s.APIKey, s.BaseURL, s.Model), nil
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "anthropic":
		if s.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return anthropic.NewProvider(s.APIKey, s.BaseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
