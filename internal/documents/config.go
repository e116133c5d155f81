package documents

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds chunking parameters.
type Config struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// Env maps chunker config fields to environment variable names for override
// injection.
type Env struct {
	Size    string
	Overlap string
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
	if overlay.Size != 0 {
		c.Size = overlay.Size
	}
	if overlay.Overlap != 0 {
		c.Overlap = overlay.Overlap
	}
}

func (c *Config) loadDefaults() {
	if c.Size == 0 {
		c.Size = DefaultChunkSize
	}
	if c.Overlap == 0 {
		c.Overlap = DefaultChunkOverlap
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Size != "" {
		if v := os.Getenv(env.Size); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Size = n
			}
		}
	}
	if env.Overlap != "" {
		if v := os.Getenv(env.Overlap); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Overlap = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Size < 1 {
		return fmt.Errorf("invalid size: %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("invalid overlap: %d for size %d", c.Overlap, c.Size)
	}
	return nil
}
