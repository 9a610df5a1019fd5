package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/model"
)

// Checker defines the interface for checking a single claim
type Checker interface {
	Check(ctx context.Context, req model.Request, settings model.Settings) (*model.Result, error)
}

// ClaimJob checks one claim, waiting on the limiter for the API host first
type ClaimJob struct {
	Request  model.Request
	Settings model.Settings
	Checker  Checker
	Limiter  *Limiter
	Endpoint string
}

// Execute executes the claim job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil && j.Endpoint != "" {
		if err := j.Limiter.Wait(ctx, j.Endpoint); err != nil {
			return &ClaimResult{Request: j.Request, Error: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	result, err := j.Checker.Check(ctx, j.Request, j.Settings)
	return &ClaimResult{
		Request: j.Request,
		Result:  result,
		Error:   err,
	}
}

// ClaimResult represents the result of a claim job
type ClaimResult struct {
	Request model.Request
	Result  *model.Result
	Error   error
}

// GetError returns the error from the claim result
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor checks many claims concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
	limiter     *Limiter
	endpoint    string
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. Calls are throttled per
// host of endpoint when limiter is non-nil.
func NewBatchProcessor(checker Checker, concurrency int, limiter *Limiter, endpoint string, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		limiter:     limiter,
		endpoint:    endpoint,
		logger:      logger,
	}
}

// ProcessClaims numbers claims 1..N in input order, checks them concurrently
// and returns results sorted by claim number. A failed claim does not stop
// the others.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string, settings model.Settings) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	jobs := make([]Job, len(claims))
	for i, claim := range claims {
		jobs[i] = &ClaimJob{
			Request: model.Request{
				Claim:       claim,
				ClaimNumber: i + 1,
				TotalClaims: len(claims),
			},
			Settings: settings,
			Checker:  b.checker,
			Limiter:  b.limiter,
			Endpoint: b.endpoint,
		}
	}

	b.logger.Debug("Starting batch", zap.Int("claims", len(claims)), zap.Int("workers", b.concurrency))

	pool := NewPool(ctx, b.concurrency)
	results := pool.Run(jobs)

	claimResults := make([]*ClaimResult, len(results))
	for i, r := range results {
		claimResults[i] = r.(*ClaimResult)
		if claimResults[i].Error != nil {
			b.logger.Debug("Claim failed",
				zap.Int("claim_number", claimResults[i].Request.ClaimNumber),
				zap.Error(claimResults[i].Error))
		}
	}

	sort.Slice(claimResults, func(i, j int) bool {
		return claimResults[i].Request.ClaimNumber < claimResults[j].Request.ClaimNumber
	})

	return claimResults
}

// ProcessFile reads claims from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, settings model.Settings) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims, settings), nil
}

// ReadClaimsFromFile reads one claim per line. Blank lines and lines
// starting with # are skipped; repeated claims are kept.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
