package llm

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

// Provider defines the interface for fact-checking backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Query sends one system+user exchange and returns the parsed answer
	Query(ctx context.Context, req QueryRequest) (*model.Answer, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// QueryRequest is the input for a single completion call
type QueryRequest struct {
	// Prompt is sent as the user message
	Prompt string

	// SystemMessage is sent as the system message
	SystemMessage string

	// Model is the provider-specific model name (falls back to Config.Model)
	Model string
}

// Config holds provider configuration
type Config struct {
	// Provider name: "perplexity", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Perplexity/OpenAI
	APIKey string

	// BaseURL overrides the provider endpoint
	BaseURL string

	// Timeout for API requests in seconds; 0 leaves the client without one
	Timeout int

	// UserAgent sent with every request (optional)
	UserAgent string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the sonar defaults
func DefaultConfig() Config {
	return Config{
		Provider: "perplexity",
		Model:    model.DefaultModel,
	}
}

// ConfigFromModel converts the file/flag configuration into a provider Config
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:   llmCfg.Provider,
		Model:      llmCfg.Model,
		APIKey:     llmCfg.APIKey,
		BaseURL:    llmCfg.BaseURL,
		Timeout:    llmCfg.Timeout,
		UserAgent:  httpCfg.UserAgent,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
		NoProxy:    httpCfg.NoProxy,
	}
}

// resolveModel picks the request model, then the configured one, then the fallback
func resolveModel(req QueryRequest, config Config, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if config.Model != "" {
		return config.Model
	}
	return fallback
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// extractURLs pulls unique http(s) URLs out of free text, in order of appearance
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	unique := make([]string, 0, len(matches))
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}

	return unique
}
