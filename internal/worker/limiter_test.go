package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx, "https://api.perplexity.ai/chat/completions"); err != nil {
			t.Fatalf("expected unlimited limiter to pass request %d: %v", i, err)
		}
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	endpoint := "https://api.perplexity.ai/chat/completions"

	if err := limiter.Wait(context.Background(), endpoint); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Token consumed; the next one is 100s away, beyond the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, endpoint); err == nil {
		t.Errorf("expected wait to fail (exhausted tokens)")
	}

	if err := limiter.Wait(ctx, "http://localhost:11434/api/chat"); err != nil {
		t.Errorf("expected other host to pass: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	endpoint := "https://api.perplexity.ai"
	_ = limiter.Wait(context.Background(), endpoint)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx, endpoint); err == nil {
		t.Error("expected error waiting with cancelled context")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://api.perplexity.ai/chat/completions")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "api.perplexity.ai" {
		t.Errorf("expected api.perplexity.ai, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
