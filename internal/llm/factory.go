package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
)

// NewProvider creates a provider based on configuration. An empty provider
// name selects Perplexity.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "perplexity", "sonar", "":
		return NewSonarProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: perplexity, openai, ollama)", config.Provider)
	}
}

// NewCachedProvider creates a provider whose successful answers are kept in c
func NewCachedProvider(config Config, c cache.Cache, logger *zap.Logger) (Provider, error) {
	inner, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return WrapWithCache(inner, c, logger), nil
}

// Endpoint returns the base URL a provider built from config will call
func Endpoint(config Config) string {
	if config.BaseURL != "" {
		return config.BaseURL
	}

	switch strings.ToLower(config.Provider) {
	case "openai":
		return "https://api.openai.com/v1"
	case "ollama":
		return "http://localhost:11434"
	default:
		return SonarBaseURL
	}
}
