package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
)

// SonarBaseURL is the Perplexity API root; requests go to /chat/completions
const SonarBaseURL = "https://api.perplexity.ai"

const sonarService = "Perplexity API"

// SonarProvider implements the Provider interface for Perplexity's sonar models
type SonarProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Perplexity speaks the OpenAI chat-completions wire format with a
// top-level citations extension.
type sonarRequest struct {
	Model    string                         `json:"model"`
	Messages []openai.ChatCompletionMessage `json:"messages"`
}

type sonarResponse struct {
	ID        string                        `json:"id"`
	Model     string                        `json:"model"`
	Choices   []openai.ChatCompletionChoice `json:"choices"`
	Citations []string                      `json:"citations"`
	Usage     openai.Usage                  `json:"usage"`
}

type sonarError struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewSonarProvider creates a new Perplexity provider
func NewSonarProvider(config Config) (*SonarProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Perplexity API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = SonarBaseURL
	}

	// No client timeout unless configured; callers bound the call through ctx
	return &SonarProvider{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		config: config,
	}, nil
}

// Name returns the provider name
func (p *SonarProvider) Name() string {
	return "perplexity"
}

// IsAvailable checks if the provider is properly configured
func (p *SonarProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.Query(ctx, QueryRequest{Prompt: "ping", SystemMessage: "Reply with one word."})
	return err == nil
}

// Query sends the system message and prompt to /chat/completions
func (p *SonarProvider) Query(ctx context.Context, req QueryRequest) (*model.Answer, error) {
	apiReq := sonarRequest{
		Model: resolveModel(req, p.config, model.DefaultModel),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	resp, err := p.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response: no choices returned")
	}

	parts := make([]string, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		parts = append(parts, c.Message.Content)
	}

	citations := resp.Citations
	if citations == nil {
		citations = []string{}
	}

	return &model.Answer{
		Content:   strings.Join(parts, " "),
		Citations: citations,
	}, nil
}

// makeRequest makes an HTTP request to the chat completions endpoint
func (p *SonarProvider) makeRequest(ctx context.Context, apiReq sonarRequest) (*sonarResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.config.UserAgent)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(sonarService, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    sonarErrorMessage(httpResp, respBody),
		}
	}

	var resp sonarResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}

// sonarErrorMessage prefers the service's own message over the status text
func sonarErrorMessage(resp *http.Response, body []byte) string {
	var apiErr sonarError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			return apiErr.Error.Message
		}
	}
	return statusText(resp)
}

// statusText mirrors the reason phrase, e.g. "Unauthorized"
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
