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

// Config holds the spendgate API configuration.
type Config struct {
	HTTP      HTTPConfig                `yaml:"http"`
	Database  DatabaseConfig            `yaml:"database"`
	Auth      AuthConfig                `yaml:"auth"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Pricing   map[string]PriceConfig    `yaml:"pricing"`
	Quote     QuoteConfig               `yaml:"quote"`
	Logging   LoggingConfig             `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis; both speak RESP)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// ProviderConfig holds upstream LLM provider credentials.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // empty = provider default (api.openai.com for openai)
}

// PriceConfig holds per-1000-token USD prices for one provider:model key.
type PriceConfig struct {
	InputPer1K  float64 `yaml:"input_per_1k"`
	OutputPer1K float64 `yaml:"output_per_1k"`
}

// QuoteConfig holds quote issuing settings.
type QuoteConfig struct {
	TTLSeconds               int     `yaml:"ttl_seconds"`                    // quote lifetime (default 900)
	MaxCostUSD               float64 `yaml:"max_cost_usd"`                   // system-wide cost cap disclosed on every quote
	DefaultMaxOutputTokens   int     `yaml:"default_max_output_tokens"`      // default 512
	DefaultExpectedOutTokens int     `yaml:"default_expected_output_tokens"` // default 400
	Estimator                string  `yaml:"estimator"`                      // "heuristic" (default) or "tiktoken"
	SingleUse                bool    `yaml:"single_use"`                     // atomically invalidate a quote on confirm
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		// Confirm blocks on one upstream chat completion; give it room.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "spendgate:"
	}
	if c.Quote.TTLSeconds <= 0 {
		c.Quote.TTLSeconds = 900
	}
	if c.Quote.MaxCostUSD <= 0 {
		c.Quote.MaxCostUSD = 1.00
	}
	if c.Quote.DefaultMaxOutputTokens <= 0 {
		c.Quote.DefaultMaxOutputTokens = 512
	}
	if c.Quote.DefaultExpectedOutTokens <= 0 {
		c.Quote.DefaultExpectedOutTokens = 400
	}
	if c.Quote.Estimator == "" {
		c.Quote.Estimator = "heuristic"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Driver {
	case "redis", "valkey":
		// ok
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	switch c.Quote.Estimator {
	case "heuristic", "tiktoken":
		// ok
	default:
		return fmt.Errorf("quote.estimator must be \"heuristic\" or \"tiktoken\", got %q", c.Quote.Estimator)
	}
	for key, p := range c.Pricing {
		if !strings.Contains(key, ":") {
			return fmt.Errorf("pricing key %q must have the form provider:model", key)
		}
		if p.InputPer1K < 0 || p.OutputPer1K < 0 {
			return fmt.Errorf("pricing.%s prices must be non-negative", key)
		}
	}
	return nil
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
