package openapi

import "os"

// Config holds the metadata published in the generated spec.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv maps config fields to environment variable names.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.ServerURL != "" {
		c.ServerURL = overlay.ServerURL
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "RENCI NER API"
	}
	if c.Description == "" {
		c.Description = "Biomedical named-entity recognition, linking, and normalization over RENCI annotation services."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for name, field := range map[string]*string{
		env.Title:       &c.Title,
		env.Description: &c.Description,
		env.ServerURL:   &c.ServerURL,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}
