package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/model"
)

var version = "0.1.0"

var (
	cfgFile         string
	verbose         bool
	modelName       string
	systemMessage   string
	providerName    string
	baseURL         string
	requestTimeout  int
	useCache        bool
	verifyCitations bool

	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factcheck",
	Short: "factcheck - verify claims one at a time against a web-grounded model",
	Long: `factcheck sends each claim to a retrieval-augmented language model
(Perplexity sonar by default), classifies the answer as true, false or
partially true, and lists the sources the model cited.

Claims are checked as part of a numbered sequence. After the last claim
the output carries instructions for writing the final report.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// ExecuteContext runs the root command; cancelling ctx aborts in-flight requests
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "factcheck v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factcheck/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&modelName, "model", "", "model name (default: sonar)")
	flags.StringVar(&systemMessage, "system-message", "", "system message sent with every claim")
	flags.StringVar(&providerName, "provider", "", "backend: perplexity, openai, ollama (default: perplexity)")
	flags.StringVar(&baseURL, "base-url", "", "override the provider endpoint")
	flags.IntVar(&requestTimeout, "timeout", 0, "request timeout in seconds (0 = none)")
	flags.BoolVar(&useCache, "cache", false, "cache answers in memory and on disk (default dir: ~/.factcheck/cache)")
	flags.BoolVar(&verifyCitations, "verify-citations", false, "fetch cited URLs and report on them")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".factcheck"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// FACTCHECK_LLM_MODEL, FACTCHECK_CACHE_ENABLED, ...
	viper.SetEnvPrefix("FACTCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// envKeys lists config keys that may come from the environment. Viper only
// unmarshals env values for keys it knows about.
var envKeys = []string{
	"llm.provider",
	"llm.model",
	"llm.system_message",
	"llm.base_url",
	"llm.timeout",
	"http.user_agent",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
	"cache.enabled",
	"cache.dir",
	"concurrency.workers",
	"concurrency.citation_workers",
	"rate_limiting.requests_per_second",
	"rate_limiting.burst_size",
	"citations.verify",
	"citations.respect_robots",
	"citations.timeout",
}

func bindEnv(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	// First match wins
	_ = v.BindEnv("llm.api_key", "FACTCHECK_API_KEY", "FACTCHECK_LLM_API_KEY", "PERPLEXITY_API_KEY")
}

// loadConfig layers config file and env over the defaults, then applies any
// flags the user set on cmd
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyFlags(cfg, cmd)
	return cfg, nil
}

func applyFlags(cfg *model.Config, cmd *cobra.Command) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("model") {
		cfg.LLM.Model = modelName
	}
	if changed("system-message") {
		cfg.LLM.SystemMessage = systemMessage
	}
	if changed("provider") {
		cfg.LLM.Provider = providerName
	}
	if changed("base-url") {
		cfg.LLM.BaseURL = baseURL
	}
	if changed("timeout") {
		cfg.LLM.Timeout = requestTimeout
	}
	if changed("cache") {
		cfg.Cache.Enabled = useCache
	}
	if changed("verify-citations") {
		cfg.Citations.Verify = verifyCitations
	}
	if changed("verbose") {
		cfg.Output.Verbose = verbose
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
