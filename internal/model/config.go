package model

import (
	"os"
	"path/filepath"
)

// Config is the complete factcheck configuration
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Citations    CitationConfig     `yaml:"citations" mapstructure:"citations"`
	Authority    AuthorityConfig    `yaml:"authority" mapstructure:"authority"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects the fact-checking backend
type LLMConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // perplexity, openai, ollama
	Model         string `yaml:"model" mapstructure:"model"`
	SystemMessage string `yaml:"system_message" mapstructure:"system_message"`
	APIKey        string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL       string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout       int    `yaml:"timeout" mapstructure:"timeout"` // seconds, 0 = no client timeout
}

// Settings extracts the per-call settings
func (c LLMConfig) Settings() Settings {
	return Settings{
		APIKey:        c.APIKey,
		Model:         c.Model,
		SystemMessage: c.SystemMessage,
	}
}

// HTTPConfig controls outbound HTTP behaviour
type HTTPConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the optional answer cache
type CacheConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir       string `yaml:"dir" mapstructure:"dir"`
	MemoryTTL int    `yaml:"memory_ttl" mapstructure:"memory_ttl"` // seconds
	DiskTTL   int    `yaml:"disk_ttl" mapstructure:"disk_ttl"`     // seconds
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	Workers         int `yaml:"workers" mapstructure:"workers"`                   // Batch claim workers
	CitationWorkers int `yaml:"citation_workers" mapstructure:"citation_workers"` // Parallel citation fetches
}

// RateLimitingConfig throttles calls to the API host during batch runs
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CitationConfig controls citation verification
type CitationConfig struct {
	Verify        bool `yaml:"verify" mapstructure:"verify"`
	RespectRobots bool `yaml:"respect_robots" mapstructure:"respect_robots"`
	Timeout       int  `yaml:"timeout" mapstructure:"timeout"` // seconds per citation
}

// AuthorityConfig drives the citation authority classifier
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	JSON    bool `yaml:"json" mapstructure:"json"`
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultCacheDir is ~/.factcheck/cache, or "" (memory only) when there is
// no home directory
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".factcheck", "cache")
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:      "perplexity",
			SystemMessage: DefaultSystemMessage,
		},
		HTTP: HTTPConfig{
			UserAgent:    "factcheck/0.1 (+https://github.com/ppiankov/factcheck)",
			MaxBodyBytes: 512_000,
		},
		Cache: CacheConfig{
			Enabled:   false,
			Dir:       DefaultCacheDir(),
			MemoryTTL: 3600,
			DiskTTL:   86400,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         4,
			CitationWorkers: 8,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Citations: CitationConfig{
			Verify:        false,
			RespectRobots: true,
			Timeout:       10,
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"gov", "europa.eu", "who.int", "un.org", "doi.org",
				"nih.gov", "arxiv.org", "nature.com", "science.org",
			},
			SecondaryDomains: []string{
				"wikipedia.org", "britannica.com", "reuters.com", "apnews.com",
				"bbc.co.uk", "bbc.com", "nytimes.com", "theguardian.com",
			},
		},
	}
}
