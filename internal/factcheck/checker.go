package factcheck

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
)

// ProviderFactory builds the backend for a call from the caller's settings
type ProviderFactory func(settings model.Settings) (llm.Provider, error)

// CitationVerifier follows returned citations; see internal/citation
type CitationVerifier interface {
	Verify(ctx context.Context, citations []string) []model.CitationCheck
}

// Checker runs validate, query, classify and format for one claim at a time.
// It holds no per-call state and is safe for concurrent use.
type Checker struct {
	factory  ProviderFactory
	verifier CitationVerifier
	logger   *zap.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithLogger sets the logger (default: no-op)
func WithLogger(logger *zap.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProvider makes every call use p regardless of settings
func WithProvider(p llm.Provider) Option {
	return func(c *Checker) {
		c.factory = func(model.Settings) (llm.Provider, error) { return p, nil }
	}
}

// WithProviderFactory sets how providers are built from settings
func WithProviderFactory(f ProviderFactory) Option {
	return func(c *Checker) {
		c.factory = f
	}
}

// WithCitationVerifier enables citation verification
func WithCitationVerifier(v CitationVerifier) Option {
	return func(c *Checker) {
		c.verifier = v
	}
}

// NewChecker creates a checker. By default each call talks to Perplexity
// with the API key from its settings.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		factory: SonarFactory(llm.DefaultConfig()),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SonarFactory returns a factory that builds a provider from base, with the
// API key taken from the call's settings. A model in the settings overrides
// the one in base.
func SonarFactory(base llm.Config) ProviderFactory {
	return func(settings model.Settings) (llm.Provider, error) {
		return llm.NewProvider(ProviderConfig(base, settings))
	}
}

// ProviderConfig merges per-call settings into base
func ProviderConfig(base llm.Config, settings model.Settings) llm.Config {
	cfg := base
	cfg.APIKey = settings.APIKey
	if settings.Model != "" {
		cfg.Model = settings.Model
	}
	return cfg
}

// Check fact-checks a single claim
func (c *Checker) Check(ctx context.Context, req model.Request, settings model.Settings) (*model.Result, error) {
	if err := Validate(req, settings); err != nil {
		return nil, err
	}
	settings = settings.WithDefaults()

	provider, err := c.factory(settings)
	if err != nil {
		return nil, fmt.Errorf("fact-checking failed: %w", err)
	}

	log := c.logger.With(
		zap.Int("claim_number", req.ClaimNumber),
		zap.Int("total_claims", req.TotalClaims),
		zap.String("provider", provider.Name()),
		zap.String("model", settings.Model),
	)
	log.Debug("Querying provider")

	start := time.Now()
	answer, err := provider.Query(ctx, llm.QueryRequest{
		Prompt:        BuildPrompt(req.Claim),
		SystemMessage: settings.SystemMessage,
		Model:         settings.Model,
	})
	if err != nil {
		log.Debug("Query failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("fact-checking failed: %w", err)
	}

	result := NewResult(req, answer)
	log.Debug("Claim checked",
		zap.String("verdict", string(result.Verdict)),
		zap.Int("citations", len(result.Citations)),
		zap.String("next_action", string(result.NextAction)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if c.verifier != nil && len(result.Citations) > 0 {
		result.CitationChecks = c.verifier.Verify(ctx, result.Citations)
	}

	return result, nil
}

// CheckText is Check followed by Format
func (c *Checker) CheckText(ctx context.Context, req model.Request, settings model.Settings) (string, error) {
	result, err := c.Check(ctx, req, settings)
	if err != nil {
		return "", err
	}
	return Format(result), nil
}
