package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Data: DataConfig{ReviewsPath: "data/reviews.csv", PlacesPath: "data/places.csv"},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Ranking.OverfetchMultiplier != 5 {
		t.Errorf("OverfetchMultiplier = %d, want 5", cfg.Ranking.OverfetchMultiplier)
	}
	if cfg.Ranking.CandidateCeiling != 300 {
		t.Errorf("CandidateCeiling = %d, want 300", cfg.Ranking.CandidateCeiling)
	}
	if cfg.Ranking.PerPlaceCap != 15 {
		t.Errorf("PerPlaceCap = %d, want 15", cfg.Ranking.PerPlaceCap)
	}
	if cfg.Ranking.ResultOverfetch != 2 {
		t.Errorf("ResultOverfetch = %d, want 2", cfg.Ranking.ResultOverfetch)
	}
	if cfg.Ranking.NegativeThreshold != 0.15 {
		t.Errorf("NegativeThreshold = %f, want 0.15", cfg.Ranking.NegativeThreshold)
	}
	if cfg.Ranking.DefaultThreshold != 0.20 {
		t.Errorf("DefaultThreshold = %f, want 0.20", cfg.Ranking.DefaultThreshold)
	}
	if cfg.Ranking.TruncateLen != 512 {
		t.Errorf("TruncateLen = %d, want 512", cfg.Ranking.TruncateLen)
	}
	if cfg.Ranking.DefaultTopK != 10 || cfg.Ranking.DefaultMinReviews != 3 {
		t.Errorf("search defaults = %d/%d, want 10/3",
			cfg.Ranking.DefaultTopK, cfg.Ranking.DefaultMinReviews)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking.OverfetchMultiplier = 3
	cfg.Ranking.PerPlaceCap = 7
	cfg.ApplyDefaults()

	if cfg.Ranking.OverfetchMultiplier != 3 {
		t.Errorf("OverfetchMultiplier overwritten: %d", cfg.Ranking.OverfetchMultiplier)
	}
	if cfg.Ranking.PerPlaceCap != 7 {
		t.Errorf("PerPlaceCap overwritten: %d", cfg.Ranking.PerPlaceCap)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, true},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, true},
		{"cache enabled without addrs", func(c *Config) { c.Cache.Enabled = true }, true},
		{"cache enabled with addrs", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Addrs = []string{"localhost:6379"}
		}, false},
		{"missing reviews path", func(c *Config) { c.Data.ReviewsPath = "" }, true},
		{"missing places path", func(c *Config) { c.Data.PlacesPath = "" }, true},
		{"bad weight label", func(c *Config) {
			c.Ranking.SentimentWeights = map[string]float64{"angry": 2}
		}, true},
		{"good weight label", func(c *Config) {
			c.Ranking.SentimentWeights = map[string]float64{"positive": 1.5}
		}, false},
		{"bad alignment query label", func(c *Config) {
			c.Ranking.Alignment = map[string]map[string]float64{"sad": {"positive": 1}}
		}, true},
		{"bad alignment review label", func(c *Config) {
			c.Ranking.Alignment = map[string]map[string]float64{"negative": {"meh": 1}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("PLACERANK_TEST_KEY", "secret")
	defer os.Unsetenv("PLACERANK_TEST_KEY")

	out := expandEnvVars([]byte("api_key: ${PLACERANK_TEST_KEY}"))
	if string(out) != "api_key: secret" {
		t.Errorf("expand = %q", out)
	}

	out = expandEnvVars([]byte("model: ${PLACERANK_UNSET_VAR:-fallback}"))
	if string(out) != "model: fallback" {
		t.Errorf("expand with default = %q", out)
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if env := GetEnv(); env != "local" {
		t.Errorf("GetEnv() = %q, want local", env)
	}
	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if env := GetEnv(); env != "prod" {
		t.Errorf("GetEnv() = %q, want prod", env)
	}
}
