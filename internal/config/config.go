// Package config loads the service configuration: a base TOML file, an
// optional environment overlay merged field-by-field, and environment
// variable overrides applied during finalization.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sharanyaa23/DocSense/internal/alignment"
	"github.com/sharanyaa23/DocSense/internal/documents"
	"github.com/sharanyaa23/DocSense/internal/inference"
	"github.com/sharanyaa23/DocSense/internal/workflow"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDocSenseEnv             = "DOCSENSE_ENVIRONMENT"
	EnvDocSenseShutdownTimeout = "DOCSENSE_SHUTDOWN_TIMEOUT"
	EnvDocSenseVersion         = "DOCSENSE_VERSION"
)

var providerEnv = &inference.Env{
	Name:          "DOCSENSE_PROVIDER_NAME",
	BaseURL:       "DOCSENSE_PROVIDER_BASE_URL",
	Model:         "DOCSENSE_PROVIDER_MODEL",
	APIKeyEnv:     "DOCSENSE_PROVIDER_API_KEY_ENV",
	Temperature:   "DOCSENSE_PROVIDER_TEMPERATURE",
	MaxConcurrent: "DOCSENSE_PROVIDER_MAX_CONCURRENT",
	Timeout:       "DOCSENSE_PROVIDER_TIMEOUT",
	Retries:       "DOCSENSE_PROVIDER_RETRIES",
}

var engineEnv = &workflow.Env{
	RetryLimit:    "DOCSENSE_ENGINE_RETRY_LIMIT",
	EscalateLimit: "DOCSENSE_ENGINE_ESCALATE_LIMIT",
}

var chunkerEnv = &documents.Env{
	Size:    "DOCSENSE_CHUNKER_SIZE",
	Overlap: "DOCSENSE_CHUNKER_OVERLAP",
}

var alignmentEnv = &alignment.Env{
	SimilarityThreshold: "DOCSENSE_ALIGNMENT_SIMILARITY_THRESHOLD",
}

// Config is the root configuration for the DocSense service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Provider        inference.Config `toml:"provider"`
	Engine          workflow.Config  `toml:"engine"`
	Chunker         documents.Config `toml:"chunker"`
	Alignment       alignment.Config `toml:"alignment"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the DOCSENSE_ENVIRONMENT value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDocSenseEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Provider.Merge(&overlay.Provider)
	c.Engine.Merge(&overlay.Engine)
	c.Chunker.Merge(&overlay.Chunker)
	c.Alignment.Merge(&overlay.Alignment)
	c.API.Merge(&overlay.API)
}

// Finalize applies defaults, environment variable overrides, and validation
// across all sub-configs.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Provider.Finalize(providerEnv); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Engine.Finalize(engineEnv); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Chunker.Finalize(chunkerEnv); err != nil {
		return fmt.Errorf("chunker: %w", err)
	}
	if err := c.Alignment.Finalize(alignmentEnv); err != nil {
		return fmt.Errorf("alignment: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDocSenseShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDocSenseVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDocSenseEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
