package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/renci-ner/pkg/formatting"
	"github.com/JaimeStill/renci-ner/pkg/middleware"
	"github.com/JaimeStill/renci-ner/pkg/openapi"
)

const (
	EnvAPIBasePath    = "RENCI_NER_API_BASE_PATH"
	EnvAPIMaxBodySize = "RENCI_NER_API_MAX_BODY_SIZE"
)

var corsEnv = middleware.NewCORSEnv("RENCI_NER_CORS")

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "RENCI_NER_OPENAPI_TITLE",
	Description: "RENCI_NER_OPENAPI_DESCRIPTION",
	ServerURL:   "RENCI_NER_OPENAPI_SERVER_URL",
}

// APIConfig holds API routing and request limits along with CORS and
// OpenAPI metadata.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxBodySize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 || len(c.BasePath) == 1 {
		return fmt.Errorf("invalid base_path: %q", c.BasePath)
	}
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("invalid max_body_size: %q", c.MaxBodySize)
	}
	return nil
}
