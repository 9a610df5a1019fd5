package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newSonarForTest(t *testing.T, baseURL string) *SonarProvider {
	t.Helper()
	provider, err := NewSonarProvider(Config{APIKey: "test-key", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestSonarProvider_Query_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected Authorization Bearer test-key, got %s", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected content-type application/json, got %s", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Expected accept application/json, got %s", got)
		}

		var body struct {
			Model    string                         `json:"model"`
			Messages []openai.ChatCompletionMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body.Model != "sonar" {
			t.Errorf("Expected default model sonar, got %s", body.Model)
		}
		if len(body.Messages) != 2 {
			t.Fatalf("Expected 2 messages, got %d", len(body.Messages))
		}
		if body.Messages[0].Role != "system" || body.Messages[0].Content != "be factual" {
			t.Errorf("Unexpected system message: %+v", body.Messages[0])
		}
		if body.Messages[1].Role != "user" || body.Messages[1].Content != "The sky is blue" {
			t.Errorf("Unexpected user message: %+v", body.Messages[1])
		}

		_, _ = w.Write([]byte(`{
			"id": "abc",
			"model": "sonar",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Verdict: True."}},
				{"index": 1, "message": {"role": "assistant", "content": "Rayleigh scattering."}}
			],
			"citations": ["https://example.com/1", "https://example.com/2"]
		}`))
	}))
	defer server.Close()

	provider := newSonarForTest(t, server.URL)

	answer, err := provider.Query(context.Background(), QueryRequest{
		Prompt:        "The sky is blue",
		SystemMessage: "be factual",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if answer.Content != "Verdict: True. Rayleigh scattering." {
		t.Errorf("Unexpected content: %q", answer.Content)
	}
	if len(answer.Citations) != 2 || answer.Citations[1] != "https://example.com/2" {
		t.Errorf("Unexpected citations: %v", answer.Citations)
	}
}

func TestSonarProvider_Query_MissingCitations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer server.Close()

	answer, err := newSonarForTest(t, server.URL).Query(context.Background(), QueryRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if answer.Citations == nil || len(answer.Citations) != 0 {
		t.Errorf("Expected empty non-nil citations, got %#v", answer.Citations)
	}
}

func TestSonarProvider_Query_ModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body sonarRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "sonar-pro" {
			t.Errorf("Expected sonar-pro, got %s", body.Model)
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer server.Close()

	_, err := newSonarForTest(t, server.URL).Query(context.Background(), QueryRequest{Prompt: "x", Model: "sonar-pro"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
}

func TestSonarProvider_Query_APIErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"top-level message", http.StatusUnauthorized, `{"message": "Invalid API key"}`, "Invalid API key"},
		{"nested error", http.StatusBadRequest, `{"error": {"message": "Invalid model", "type": "invalid_request"}}`, "Invalid model"},
		{"status text fallback", http.StatusInternalServerError, `<html>oops</html>`, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newSonarForTest(t, server.URL).Query(context.Background(), QueryRequest{Prompt: "x"})
			if !errors.Is(err, ErrAPI) {
				t.Fatalf("Expected ErrAPI, got %v", err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, apiErr.Message)
			}
			if err.Error() != "API Error: "+tt.wantMsg {
				t.Errorf("Unexpected error text: %s", err.Error())
			}
		})
	}
}

func TestSonarProvider_Query_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // Nothing listens here any more

	_, err := newSonarForTest(t, url).Query(context.Background(), QueryRequest{Prompt: "x"})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got %v", err)
	}
	if errors.Is(err, ErrAPI) {
		t.Error("Network error must not match ErrAPI")
	}
	if !strings.Contains(err.Error(), "Please check your internet connection") {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestSonarProvider_Query_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSonarForTest(t, server.URL).Query(ctx, QueryRequest{Prompt: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("Cancellation must not be reported as a network error")
	}
}

func TestSonarProvider_Query_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	_, err := newSonarForTest(t, server.URL).Query(context.Background(), QueryRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for empty choices, got nil")
	}
}

func TestSonarProvider_Query_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	_, err := newSonarForTest(t, server.URL).Query(context.Background(), QueryRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}

func TestNewSonarProvider_RequiresKey(t *testing.T) {
	if _, err := NewSonarProvider(Config{}); err == nil {
		t.Fatal("Expected error without API key")
	}
}
