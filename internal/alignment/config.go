package alignment

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds alignment tuning parameters.
type Config struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// Env maps alignment config fields to environment variable names for
// override injection.
type Env struct {
	SimilarityThreshold string
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
	if overlay.SimilarityThreshold != 0 {
		c.SimilarityThreshold = overlay.SimilarityThreshold
	}
}

func (c *Config) loadDefaults() {
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.SimilarityThreshold != "" {
		if v := os.Getenv(env.SimilarityThreshold); v != "" {
			if threshold, err := strconv.ParseFloat(v, 64); err == nil {
				c.SimilarityThreshold = threshold
			}
		}
	}
}

func (c *Config) validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("invalid similarity_threshold: %v", c.SimilarityThreshold)
	}
	return nil
}
