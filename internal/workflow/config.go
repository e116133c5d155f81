package workflow

import (
	"fmt"
	"os"
	"strconv"
)

// Default loop budgets: at most 1 + retry + escalate inference calls per run.
const (
	DefaultRetryLimit    = 2
	DefaultEscalateLimit = 1
)

// Config holds the engine's retry and escalation budgets.
type Config struct {
	RetryLimit    int `toml:"retry_limit"`
	EscalateLimit int `toml:"escalate_limit"`
}

// Env maps engine config fields to environment variable names for override
// injection.
type Env struct {
	RetryLimit    string
	EscalateLimit string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.RetryLimit != 0 {
		c.RetryLimit = overlay.RetryLimit
	}
	if overlay.EscalateLimit != 0 {
		c.EscalateLimit = overlay.EscalateLimit
	}
}

func (c *Config) loadDefaults() {
	if c.RetryLimit == 0 {
		c.RetryLimit = DefaultRetryLimit
	}
	if c.EscalateLimit == 0 {
		c.EscalateLimit = DefaultEscalateLimit
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.RetryLimit != "" {
		if v := os.Getenv(env.RetryLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RetryLimit = n
			}
		}
	}
	if env.EscalateLimit != "" {
		if v := os.Getenv(env.EscalateLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.EscalateLimit = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.RetryLimit < 0 {
		return fmt.Errorf("invalid retry_limit: %d", c.RetryLimit)
	}
	if c.EscalateLimit < 0 {
		return fmt.Errorf("invalid escalate_limit: %d", c.EscalateLimit)
	}
	return nil
}
