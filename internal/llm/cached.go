package llm

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/model"
)

// CachedProvider serves repeated identical queries from a cache.
// Errors are never cached, and a failing cache never fails a query.
type CachedProvider struct {
	inner  Provider
	cache  cache.Cache
	logger *zap.Logger
}

// WrapWithCache wraps an existing provider; logger may be nil
func WrapWithCache(inner Provider, c cache.Cache, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{inner: inner, cache: c, logger: logger}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Query returns a cached answer when one exists, otherwise queries and stores
func (p *CachedProvider) Query(ctx context.Context, req QueryRequest) (*model.Answer, error) {
	key := cache.Key(p.inner.Name(), req.Model, req.SystemMessage, req.Prompt)

	if data, found := p.cache.Get(key); found {
		var answer model.Answer
		if err := json.Unmarshal(data, &answer); err == nil {
			return &answer, nil
		}
		// Corrupt entry; drop it and fall through to a fresh query
		_ = p.cache.Delete(key)
	}

	answer, err := p.inner.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(answer)
	if err == nil {
		err = p.cache.Set(key, data, 0)
	}
	if err != nil {
		p.logger.Warn("Failed to cache answer", zap.String("provider", p.inner.Name()), zap.Error(err))
	}

	return answer, nil
}
