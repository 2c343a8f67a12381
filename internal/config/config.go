package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Speed bounds accepted by the Kokoro backend
const (
	MinSpeed = 0.5
	MaxSpeed = 2.0
)

// DefaultOutputDirName is the directory created under the user's home when OUTPUT_DIR is unset
const DefaultOutputDirName = "tts_output"

// Config holds all configuration for the TTS MCP server
type Config struct {
	// Kokoro backend configuration
	KokoroBaseURL string  `envconfig:"KOKORO_BASE_URL" default:"http://localhost:8880"`
	DefaultVoice  string  `envconfig:"DEFAULT_VOICE" default:"af_bella"` // Single voice or blend, e.g. af_bella(2)+af_sky(1)
	DefaultSpeed  float64 `envconfig:"DEFAULT_SPEED" default:"1.0"`      // 0.5 - 2.0
	Timeout       int     `envconfig:"TIMEOUT" default:"30"`             // seconds, synthesis requests
	ProbeTimeout  int     `envconfig:"PROBE_TIMEOUT" default:"5"`        // seconds, voice listing and health probe

	// Where generated audio is written. Empty means $HOME/tts_output.
	OutputDir string `envconfig:"OUTPUT_DIR" default:""`

	// MCP transport configuration
	Transport string `envconfig:"MCP_TRANSPORT" default:"stdio"` // stdio or http
	Port      string `envconfig:"PORT" default:"8080"`           // only used by the http transport

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics (http transport)
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.OutputDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.OutputDir = filepath.Join(home, DefaultOutputDirName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the loaded values for consistency
func (c *Config) Validate() error {
	if c.KokoroBaseURL == "" {
		return fmt.Errorf("KOKORO_BASE_URL is required")
	}
	if c.DefaultVoice == "" {
		return fmt.Errorf("DEFAULT_VOICE must not be empty")
	}
	if c.DefaultSpeed < MinSpeed || c.DefaultSpeed > MaxSpeed {
		return fmt.Errorf("DEFAULT_SPEED must be between %.1f and %.1f, got %g", MinSpeed, MaxSpeed, c.DefaultSpeed)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT must be positive, got %d", c.Timeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("PROBE_TIMEOUT must be positive, got %d", c.ProbeTimeout)
	}
	switch c.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("MCP_TRANSPORT must be stdio or http, got %q", c.Transport)
	}
	return nil
}

// RequestTimeout is the bound applied to synthesis calls
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ProbeTimeoutDuration is the bound applied to voice listing and health checks
func (c *Config) ProbeTimeoutDuration() time.Duration {
	return time.Duration(c.ProbeTimeout) * time.Second
}

// EnsureOutputDir creates the output directory if it does not exist.
// Called once at process start.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", c.OutputDir, err)
	}
	return nil
}
