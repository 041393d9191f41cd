package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds pipeline execution parameters.
type Config struct {
	DefaultMethod string `toml:"default_method"`
	DefaultLimit  int    `toml:"default_limit"`
	Concurrency   int    `toml:"concurrency"`
	Timeout       string `toml:"timeout"`
	CacheSize     int    `toml:"cache_size"` // negative disables the linker cache
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	DefaultMethod string
	DefaultLimit  string
	Concurrency   string
	Timeout       string
	CacheSize     string
}

// TimeoutDuration returns Timeout as a time.Duration. Zero disables the run timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
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
	if overlay.DefaultMethod != "" {
		c.DefaultMethod = overlay.DefaultMethod
	}
	if overlay.DefaultLimit != 0 {
		c.DefaultLimit = overlay.DefaultLimit
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultMethod == "" {
		c.DefaultMethod = MethodSAPBERT
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = 1
	}
	if c.Timeout == "" {
		c.Timeout = "5m"
	}
	if c.CacheSize == 0 {
		c.CacheSize = 4096
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.DefaultMethod != "" {
		if v := os.Getenv(env.DefaultMethod); v != "" {
			c.DefaultMethod = v
		}
	}
	if env.DefaultLimit != "" {
		if v := os.Getenv(env.DefaultLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DefaultLimit = n
			}
		}
	}
	if env.Concurrency != "" {
		if v := os.Getenv(env.Concurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Concurrency = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.CacheSize != "" {
		if v := os.Getenv(env.CacheSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.CacheSize = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !IsMethod(c.DefaultMethod) {
		return fmt.Errorf("invalid default_method: %q", c.DefaultMethod)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("invalid default_limit: %d", c.DefaultLimit)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
