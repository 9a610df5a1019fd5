package citation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
)

// staleAfter is the Last-Modified age beyond which a source counts as stale
const staleAfter = 365 * 24 * time.Hour

// Verifier follows citation URLs and reports what it finds
type Verifier struct {
	httpClient    *http.Client
	maxWorkers    int
	maxBodyBytes  int64
	userAgent     string
	authority     *AuthorityClassifier
	robots        *RobotsChecker
	respectRobots bool
	logger        *zap.Logger
	now           func() time.Time
}

// NewVerifier creates a verifier from configuration
func NewVerifier(cfg *model.Config, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := cfg.Concurrency.CitationWorkers
	if workers <= 0 {
		workers = 8
	}
	timeout := time.Duration(cfg.Citations.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxBytes := cfg.HTTP.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 512_000
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &Verifier{
		httpClient:    client,
		maxWorkers:    workers,
		maxBodyBytes:  maxBytes,
		userAgent:     cfg.HTTP.UserAgent,
		authority:     NewAuthorityClassifier(&cfg.Authority),
		robots:        NewRobotsChecker(client, cfg.HTTP.UserAgent),
		respectRobots: cfg.Citations.RespectRobots,
		logger:        logger,
		now:           time.Now,
	}
}

// Verify checks every citation concurrently. Results keep citation order.
func (v *Verifier) Verify(ctx context.Context, citations []string) []model.CitationCheck {
	results := make([]model.CitationCheck, len(citations))
	if len(citations) == 0 {
		return results
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, c := range citations {
		wg.Add(1)
		go func(idx int, citation string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.CitationCheck{Citation: citation, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.verifyOne(ctx, citation)
		}(i, c)
	}

	wg.Wait()
	return results
}

func (v *Verifier) verifyOne(ctx context.Context, citation string) model.CitationCheck {
	result := model.CitationCheck{Citation: citation}

	target, ok := citationURL(citation)
	if !ok {
		result.Skipped = true
		return result
	}
	result.Authority = v.authority.Classify(target)

	if v.respectRobots && !v.robots.Allowed(ctx, target) {
		result.Disallowed = true
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.IsDead = true
		return result
	}
	req.Header.Set("User-Agent", v.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Debug("Citation unreachable", zap.String("url", target), zap.Error(err))
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.IsDead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.IsAccessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.IsDead = true
	}

	if final := resp.Request.URL.String(); final != target {
		result.RedirectURL = final
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			result.LastModified = &t
			result.IsStale = v.now().Sub(t) > staleAfter
		}
	}

	if result.IsAccessible && strings.Contains(resp.Header.Get("Content-Type"), "html") {
		result.Title = extractTitle(io.LimitReader(resp.Body, v.maxBodyBytes))
	}

	return result
}

// citationURL returns the citation as an absolute http(s) URL, if it is one
func citationURL(citation string) (string, bool) {
	citation = strings.TrimSpace(citation)
	parsed, err := url.Parse(citation)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	return citation, true
}

// extractTitle returns the text of the first <title> element
func extractTitle(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" && inTitle {
				return strings.Join(strings.Fields(b.String()), " ")
			}
		}
	}
}
