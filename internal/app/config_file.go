package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration schema, loaded before environment
// and flag overrides are layered on top.
type FileConfig struct {
	Listen string `yaml:"listen"`

	Searx struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"searx"`

	LLM struct {
		BaseURL string `yaml:"baseURL"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
	} `yaml:"llm"`

	MaxResultsToVisit int           `yaml:"maxResultsToVisit"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"`

	SearchRate struct {
		PerSecond float64 `yaml:"perSecond"`
		Burst     int     `yaml:"burst"`
	} `yaml:"searchRate"`

	ArtifactDir string `yaml:"artifactDir"`
	Verbose     bool   `yaml:"verbose"`
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// applyFileConfig copies non-zero FileConfig fields onto cfg. Fields already
// set by an earlier, lower-precedence layer are left untouched only where
// the file is itself silent on that field.
func applyFileConfig(cfg *Config, fc FileConfig) {
	if fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if fc.Searx.URL != "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if fc.Searx.Key != "" {
		cfg.SearxKey = fc.Searx.Key
	}
	if fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if fc.MaxResultsToVisit > 0 {
		cfg.DefaultMaxResultsToVisit = fc.MaxResultsToVisit
	}
	if fc.RequestTimeout > 0 {
		cfg.RequestTimeout = fc.RequestTimeout
	}
	if fc.SearchRate.PerSecond > 0 {
		cfg.SearchRatePerSecond = fc.SearchRate.PerSecond
		cfg.SearchRateBurst = fc.SearchRate.Burst
	}
	if fc.ArtifactDir != "" {
		cfg.ArtifactDir = fc.ArtifactDir
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
