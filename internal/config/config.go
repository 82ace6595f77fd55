package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures credentials, analysis parameters, rate limits, storage,
// and export locations. It is passed explicitly into each component's
// constructor; there is no ambient global settings object.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	RateLimit   RateLimitConfig   `yaml:"rateLimit"`
	Storage     StorageConfig     `yaml:"storage"`
	Export      ExportConfig      `yaml:"export"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type CredentialsConfig struct {
	// Instagram API session token. If empty, read from env IG_SESSION_TOKEN.
	SessionToken string `yaml:"sessionToken"`
	// API base URL override, mostly for testing. If empty, the client default applies.
	BaseURL string `yaml:"baseURL"`
}

type AnalysisConfig struct {
	// BFS bounds for the network crawl.
	MaxDepth         int `yaml:"maxDepth"`
	MaxUsersPerLevel int `yaml:"maxUsersPerLevel"`
	MaxNetworkSize   int `yaml:"maxNetworkSize"`
	// Engagement collection bounds.
	MinLikes        int `yaml:"minLikes"`
	MaxPostsPerUser int `yaml:"maxPostsPerUser"`
	MaxUsersChecked int `yaml:"maxUsersChecked"`
	MaxPostsToCheck int `yaml:"maxPostsToCheck"`
	MaxLikersPerPost int `yaml:"maxLikersPerPost"`
	// Top-N size for hashtag rankings in the report.
	TopHashtags int `yaml:"topHashtags"`
}

type RateLimitConfig struct {
	// Random pause window between external API calls.
	MinDelay time.Duration `yaml:"minDelay"`
	MaxDelay time.Duration `yaml:"maxDelay"`
	// Hard hourly API call quota; 0 disables.
	MaxCallsPerHour int `yaml:"maxCallsPerHour"`
}

type StorageConfig struct {
	DBPath string `yaml:"dbPath"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type MetricsConfig struct {
	// Listen address for /metrics, e.g. ":9090". Empty disables.
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Credentials: CredentialsConfig{},
		Analysis: AnalysisConfig{
			MaxDepth:         2,
			MaxUsersPerLevel: 50,
			MaxNetworkSize:   1000,
			MinLikes:         10000,
			MaxPostsPerUser:  10,
			MaxUsersChecked:  100,
			MaxPostsToCheck:  500,
			MaxLikersPerPost: 1000,
			TopHashtags:      20,
		},
		RateLimit: RateLimitConfig{
			MinDelay:        2 * time.Second,
			MaxDelay:        5 * time.Second,
			MaxCallsPerHour: 200,
		},
		Storage: StorageConfig{DBPath: "./iganalytics.db"},
		Export:  ExportConfig{Dir: "./reports"},
		Metrics: MetricsConfig{},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Credentials.SessionToken == "" {
		c.Credentials.SessionToken = os.Getenv("IG_SESSION_TOKEN")
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
