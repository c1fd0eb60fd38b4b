// Package app wires the request-orchestration pipeline (C1-C11) into a
// runnable HTTP server: layered configuration, gateway/client construction,
// and the handler that turns a research.SearchRequest into a
// research.FinalResult. Grounded on the teacher's internal/app config
// trio (flags over environment over file over defaults) and its App/New
// preflight-check idiom.
package app

import (
	"flag"
	"fmt"
	"time"
)

// Config holds everything needed to construct an App.
type Config struct {
	ListenAddr string

	SearxURL  string
	SearxKey  string
	UserAgent string

	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	DefaultMaxResultsToVisit int
	RequestTimeout           time.Duration

	SearchRatePerSecond float64
	SearchRateBurst     int

	ArtifactDir string
	Verbose     bool

	ConfigFile string
}

// defaultConfig returns the documented defaults, applied before any flag,
// environment, or file value is considered.
func defaultConfig() Config {
	return Config{
		ListenAddr:               ":8095",
		UserAgent:                "searchagent/1.0 (+https://github.com/fenwick-labs/searchagent)",
		DefaultMaxResultsToVisit: 10,
		RequestTimeout:           120 * time.Second,
	}
}

// Load resolves a Config from, in increasing precedence: built-in defaults,
// an optional YAML config file, environment variables, then explicit
// command-line flags. args is typically os.Args[1:].
func Load(args []string) (Config, error) {
	cfg := defaultConfig()

	// A config file path is itself resolved from flags before the rest of
	// the file is applied, so scan for -config first. There is no environment
	// variable for the config file path.
	fs := flag.NewFlagSet("searchagent", flag.ContinueOnError)
	registerFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.ConfigFile != "" {
		fileCfg, err := LoadFileConfig(cfg.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		applyFileConfig(&cfg, fileCfg)
	}

	ApplyEnvOverrides(&cfg)

	// Flags take precedence over file and environment: re-parse onto the
	// merged config so any flag the caller actually set wins last.
	fs2 := flag.NewFlagSet("searchagent", flag.ContinueOnError)
	registerFlags(fs2, &cfg)
	if err := fs2.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	fs.StringVar(&cfg.SearxURL, "searx-url", cfg.SearxURL, "SearxNG-compatible metasearch base URL")
	fs.StringVar(&cfg.SearxKey, "searx-key", cfg.SearxKey, "optional metasearch API key")
	fs.StringVar(&cfg.LLMBaseURL, "llm-base-url", cfg.LLMBaseURL, "OpenAI-compatible chat completion base URL")
	fs.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "chat completion model name")
	fs.StringVar(&cfg.LLMAPIKey, "llm-api-key", cfg.LLMAPIKey, "chat completion API key")
	fs.IntVar(&cfg.DefaultMaxResultsToVisit, "max-results", cfg.DefaultMaxResultsToVisit, "default MaxResultsToVisit when a request omits it")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "overall timeout for one research request")
	fs.Float64Var(&cfg.SearchRatePerSecond, "search-rate", cfg.SearchRatePerSecond, "outbound metasearch requests/sec (0 = unlimited)")
	fs.IntVar(&cfg.SearchRateBurst, "search-rate-burst", cfg.SearchRateBurst, "burst size for -search-rate")
	fs.StringVar(&cfg.ArtifactDir, "artifact-dir", cfg.ArtifactDir, "optional directory to export a PDF/Markdown artifact per request")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "optional YAML config file")
}
