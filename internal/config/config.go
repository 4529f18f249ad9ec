package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the placerank service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Data       DataConfig       `yaml:"data"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the optional Redis embedding cache settings.
// With Enabled=false every embedding goes straight to the provider.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BatchSize  int    `yaml:"batch_size"` // texts per ingest batch
}

// ClassifierConfig holds sentiment classifier settings.
type ClassifierConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"` // texts per classification request
}

// DataConfig holds corpus file locations.
type DataConfig struct {
	ReviewsPath string `yaml:"reviews_path"`
	PlacesPath  string `yaml:"places_path"`
}

// RankingConfig holds the tunable ranking pipeline knobs.
type RankingConfig struct {
	OverfetchMultiplier int     `yaml:"overfetch_multiplier"` // index over-fetch (default 5)
	CandidateCeiling    int     `yaml:"candidate_ceiling"`    // scored reviews fed to aggregation (default 300)
	PerPlaceCap         int     `yaml:"per_place_cap"`        // reviews per place (default 15)
	ResultOverfetch     int     `yaml:"result_overfetch"`     // pre-join place over-fetch factor (default 2)
	NegativeThreshold   float64 `yaml:"negative_threshold"`   // score floor for negative queries (default 0.15)
	DefaultThreshold    float64 `yaml:"default_threshold"`    // score floor otherwise (default 0.20)
	TruncateLen         int     `yaml:"truncate_len"`         // classifier input cap in runes (default 512)
	DefaultTopK         int     `yaml:"default_top_k"`        // places returned (default 10)
	DefaultMinReviews   int     `yaml:"default_min_reviews"`  // evidence floor (default 3)

	// Optional overrides for the sentiment policy tables. Empty maps keep
	// the built-in defaults.
	SentimentWeights map[string]float64            `yaml:"sentiment_weights"`
	Alignment        map[string]map[string]float64 `yaml:"alignment"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 64
	}
	if c.Classifier.BatchSize <= 0 {
		c.Classifier.BatchSize = 32
	}
	r := &c.Ranking
	if r.OverfetchMultiplier <= 0 {
		r.OverfetchMultiplier = 5
	}
	if r.CandidateCeiling <= 0 {
		r.CandidateCeiling = 300
	}
	if r.PerPlaceCap <= 0 {
		r.PerPlaceCap = 15
	}
	if r.ResultOverfetch <= 0 {
		r.ResultOverfetch = 2
	}
	if r.NegativeThreshold <= 0 {
		r.NegativeThreshold = 0.15
	}
	if r.DefaultThreshold <= 0 {
		r.DefaultThreshold = 0.20
	}
	if r.TruncateLen <= 0 {
		r.TruncateLen = 512
	}
	if r.DefaultTopK <= 0 {
		r.DefaultTopK = 10
	}
	if r.DefaultMinReviews <= 0 {
		r.DefaultMinReviews = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache.enabled")
	}
	if c.Data.ReviewsPath == "" {
		return fmt.Errorf("data.reviews_path is required")
	}
	if c.Data.PlacesPath == "" {
		return fmt.Errorf("data.places_path is required")
	}
	for label := range c.Ranking.SentimentWeights {
		if !validLabel(label) {
			return fmt.Errorf("ranking.sentiment_weights: unknown label %q", label)
		}
	}
	for qLabel, row := range c.Ranking.Alignment {
		if !validLabel(qLabel) {
			return fmt.Errorf("ranking.alignment: unknown query label %q", qLabel)
		}
		for rLabel := range row {
			if !validLabel(rLabel) {
				return fmt.Errorf("ranking.alignment.%s: unknown review label %q", qLabel, rLabel)
			}
		}
	}
	return nil
}

func validLabel(label string) bool {
	switch label {
	case "positive", "neutral", "negative":
		return true
	}
	return false
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
