package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/worker"
)

var (
	concurrency  int
	outputFile   string
	batchJSON    bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Fact-check every claim in a file",
	Long: `Batch checks claims from a file, one claim per line:
- Blank lines and lines starting with # are skipped
- Claims are numbered 1..N in file order
- Claims are checked in parallel with a configurable worker count
- Results are printed in claim order; the last one carries the report instructions

Example:
  factcheck batch claims.txt
  factcheck batch claims.txt --concurrency 2 --output results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers from config)")
	batchCmd.Flags().StringVar(&outputFile, "output", "", "also write results as a JSON array to this file")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print each result as JSON")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 10*time.Minute, "total timeout for batch processing")
}

// batchEntry is one element of the --output array
type batchEntry struct {
	ClaimNumber int           `json:"claim_number"`
	Claim       string        `json:"claim"`
	Result      *model.Result `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper(), cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	endpoint := llm.Endpoint(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  factcheck batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Endpoint:     %s\n", endpoint)
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.2f req/s (burst %d)\n", cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fmt.Fprintf(os.Stderr, "\n")

	checker := buildChecker(cfg, logger)
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	processor := worker.NewBatchProcessor(checker, cfg.Concurrency.Workers, limiter, endpoint, logger)

	results, err := processor.ProcessFile(ctx, file, cfg.LLM.Settings())
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no claims found in %s", file)
	}

	failures := printBatch(cmd.OutOrStdout(), results, batchJSON || cfg.Output.JSON)

	if outputFile != "" {
		if err := writeBatchJSON(outputFile, results); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	if outputFile != "" {
		fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputFile)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 {
		return fmt.Errorf("%d of %d claims failed", failures, len(results))
	}
	return nil
}

// printBatch prints results in claim order and returns the failure count
func printBatch(w io.Writer, results []*worker.ClaimResult, asJSON bool) int {
	failures := 0
	for i, r := range results {
		if i > 0 && !asJSON {
			_, _ = fmt.Fprintln(w)
		}
		if r.Error != nil {
			failures++
			_, _ = fmt.Fprintf(w, "Claim %d of %d failed: %v\n", r.Request.ClaimNumber, r.Request.TotalClaims, r.Error)
			continue
		}
		_ = writeResult(w, r.Result, asJSON)
	}
	return failures
}

func batchEntries(results []*worker.ClaimResult) []batchEntry {
	entries := make([]batchEntry, len(results))
	for i, r := range results {
		entries[i] = batchEntry{
			ClaimNumber: r.Request.ClaimNumber,
			Claim:       r.Request.Claim,
			Result:      r.Result,
		}
		if r.Error != nil {
			entries[i].Error = r.Error.Error()
		}
	}
	return entries
}

func writeBatchJSON(path string, results []*worker.ClaimResult) error {
	data, err := json.MarshalIndent(batchEntries(results), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
