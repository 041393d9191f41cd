package service

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds connection parameters for one remote annotation service.
type Config struct {
	BaseURL   string  `toml:"base_url"`
	Version   string  `toml:"version"`
	Timeout   string  `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL   string
	Version   string
	Timeout   string
	RateLimit string
	Burst     string
}

// NewEnv returns an Env whose variable names share prefix,
// e.g. RENCI_NER_NAMERES yields RENCI_NER_NAMERES_BASE_URL.
func NewEnv(prefix string) *Env {
	return &Env{
		BaseURL:   prefix + "_BASE_URL",
		Version:   prefix + "_VERSION",
		Timeout:   prefix + "_TIMEOUT",
		RateLimit: prefix + "_RATE_LIMIT",
		Burst:     prefix + "_BURST",
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize fills zero fields from defaults, applies environment variable
// overrides, and validates the result.
func (c *Config) Finalize(defaults *Config, env *Env) error {
	c.loadDefaults(defaults)
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RateLimit != 0 {
		c.RateLimit = overlay.RateLimit
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
}

func (c *Config) loadDefaults(defaults *Config) {
	if defaults != nil {
		merged := *defaults
		merged.Merge(c)
		*c = merged
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Version != "" {
		if v := os.Getenv(env.Version); v != "" {
			c.Version = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.RateLimit != "" {
		if v := os.Getenv(env.RateLimit); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.RateLimit = f
			}
		}
	}
	if env.Burst != "" {
		if v := os.Getenv(env.Burst); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Burst = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate_limit: %v", c.RateLimit)
	}
	return nil
}
