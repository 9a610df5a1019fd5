package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/cache"
	"github.com/ppiankov/factcheck/internal/citation"
	"github.com/ppiankov/factcheck/internal/factcheck"
	"github.com/ppiankov/factcheck/internal/llm"
	"github.com/ppiankov/factcheck/internal/model"
)

var (
	claimNumber int
	totalClaims int
	jsonOutput  bool
	paramsJSON  string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [claim]",
	Short: "Fact-check a single claim",
	Long: `Check one claim and print the verdict, the model's analysis and its sources.

The claim is either given as an argument with --number/--total, or as a JSON
object with --params:

Example:
  factcheck check "The Great Wall of China is visible from space"
  factcheck check "Water boils at 100C at sea level" --number 3 --total 3
  factcheck check --params '{"claim": "...", "claim_number": 1, "total_claims": 2}' --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVar(&claimNumber, "number", 1, "position of this claim in the sequence")
	checkCmd.Flags().IntVar(&totalClaims, "total", 1, "number of claims in the sequence")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	checkCmd.Flags().StringVar(&paramsJSON, "params", "", `request as JSON: {"claim", "claim_number", "total_claims"}`)
}

func runCheck(cmd *cobra.Command, args []string) error {
	req, err := checkRequest(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper(), cmd)
	if err != nil {
		return err
	}

	checker := buildChecker(cfg, logger)
	result, err := checker.Check(cmd.Context(), req, cfg.LLM.Settings())
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, jsonOutput || cfg.Output.JSON)
}

func checkRequest(cmd *cobra.Command, args []string) (model.Request, error) {
	if paramsJSON != "" {
		if len(args) > 0 {
			return model.Request{}, fmt.Errorf("%w: give the claim either as an argument or in --params", factcheck.ErrInvalidArgument)
		}
		return factcheck.DecodeParams([]byte(paramsJSON))
	}

	if len(args) == 0 {
		return model.Request{}, fmt.Errorf("%w: claim is required", factcheck.ErrInvalidArgument)
	}

	return model.Request{
		Claim:       args[0],
		ClaimNumber: claimNumber,
		TotalClaims: totalClaims,
	}, nil
}

// buildChecker wires the provider, optional cache and optional citation
// verifier from cfg
func buildChecker(cfg *model.Config, log *zap.Logger) *factcheck.Checker {
	base := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)

	opts := []factcheck.Option{factcheck.WithLogger(log)}

	if cfg.Cache.Enabled {
		answers := cache.New(cfg.Cache)
		opts = append(opts, factcheck.WithProviderFactory(func(settings model.Settings) (llm.Provider, error) {
			return llm.NewCachedProvider(factcheck.ProviderConfig(base, settings), answers, log)
		}))
	} else {
		opts = append(opts, factcheck.WithProviderFactory(factcheck.SonarFactory(base)))
	}

	if cfg.Citations.Verify {
		opts = append(opts, factcheck.WithCitationVerifier(citation.NewVerifier(cfg, log)))
	}

	return factcheck.NewChecker(opts...)
}

func writeResult(w io.Writer, result *model.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	_, err := fmt.Fprintln(w, result.Text())
	return err
}
