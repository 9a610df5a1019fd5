package citation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

func newTestVerifier(respectRobots bool) *Verifier {
	cfg := model.DefaultConfig()
	cfg.Citations.RespectRobots = respectRobots
	cfg.Citations.Timeout = 5
	return NewVerifier(cfg, nil)
}

func TestVerifier_Verify_AccessibleWithTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2023 15:04:05 GMT")
		_, _ = w.Write([]byte("<html><head><title>\n  Boiling point of water \n</title></head><body>hi</body></html>"))
	}))
	defer server.Close()

	v := newTestVerifier(true)
	v.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	checks := v.Verify(context.Background(), []string{server.URL + "/article"})
	if len(checks) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(checks))
	}

	c := checks[0]
	if !c.IsAccessible || c.IsDead {
		t.Errorf("Expected accessible citation, got %+v", c)
	}
	if c.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", c.StatusCode)
	}
	if c.Title != "Boiling point of water" {
		t.Errorf("Unexpected title: %q", c.Title)
	}
	if c.LastModified == nil || !c.IsStale {
		t.Errorf("Expected stale Last-Modified, got %+v", c)
	}
}

func TestVerifier_Verify_DeadLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checks := newTestVerifier(false).Verify(context.Background(), []string{server.URL + "/gone"})
	if !checks[0].IsDead || checks[0].IsAccessible {
		t.Errorf("Expected dead link, got %+v", checks[0])
	}
}

func TestVerifier_Verify_RobotsDisallow(t *testing.T) {
	fetched := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		fetched = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checks := newTestVerifier(true).Verify(context.Background(), []string{server.URL + "/private/page"})
	if !checks[0].Disallowed {
		t.Errorf("Expected citation to be disallowed, got %+v", checks[0])
	}
	if fetched {
		t.Error("Disallowed citation must not be fetched")
	}
}

func TestVerifier_Verify_SkipsNonURLsAndKeepsOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	citations := []string{"Smith et al. 2019", server.URL + "/a", "ftp://example.com/file", server.URL + "/b"}
	checks := newTestVerifier(false).Verify(context.Background(), citations)

	if len(checks) != len(citations) {
		t.Fatalf("Expected %d results, got %d", len(citations), len(checks))
	}
	for i, c := range checks {
		if c.Citation != citations[i] {
			t.Errorf("Result %d out of order: %s", i, c.Citation)
		}
	}
	if !checks[0].Skipped || !checks[2].Skipped {
		t.Error("Expected non-http citations to be skipped")
	}
	if checks[1].Skipped || !checks[1].IsAccessible {
		t.Errorf("Expected http citation to be verified, got %+v", checks[1])
	}
}

func TestExtractTitle(t *testing.T) {
	if got := extractTitle(strings.NewReader("<p>no title</p>")); got != "" {
		t.Errorf("Expected empty title, got %q", got)
	}
	if got := extractTitle(strings.NewReader("<title>A &amp; B</title>")); got != "A & B" {
		t.Errorf("Expected entity-decoded title, got %q", got)
	}
}
