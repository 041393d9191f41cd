package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/nodenorm"
	"github.com/JaimeStill/renci-ner/internal/pipeline"
)

const baseConfig = `
log_level = "debug"
shutdown_timeout = "10s"

[server]
port = 9000

[api]
base_path = "/ner"
max_body_size = "256KB"

[api.cors]
enabled = true
origins = ["http://localhost:3000"]

[pipeline]
default_method = "biomegatron-nameres"
concurrency = 4

[services.nameres]
base_url = "http://nameres.internal/"
rate_limit = 5.0

[services.sapbert]
version = "2.1.0"
`

const overlayConfig = `
[server]
port = 9090

[pipeline]
default_limit = 3
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %s", cfg.Server.Addr())
	}
	if cfg.API.BasePath != "/api" || cfg.API.MaxBodySizeBytes() != 1<<20 {
		t.Errorf("api: got %+v", cfg.API)
	}
	if cfg.Pipeline.DefaultMethod != pipeline.MethodSAPBERT {
		t.Errorf("default method: got %s", cfg.Pipeline.DefaultMethod)
	}
	if cfg.Services.NodeNorm.BaseURL != nodenorm.DefaultURL {
		t.Errorf("nodenorm url: got %s", cfg.Services.NodeNorm.BaseURL)
	}
	if cfg.Services.NodeNorm.TimeoutDuration() != 30*time.Second {
		t.Errorf("nodenorm timeout: got %v", cfg.Services.NodeNorm.TimeoutDuration())
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("level: got %v", cfg.Level())
	}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s", cfg.Env())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", baseConfig)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level: got %v", cfg.Level())
	}
	if cfg.ShutdownTimeoutDuration() != 10*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/ner" || cfg.API.MaxBodySizeBytes() != 256<<10 {
		t.Errorf("api: got %+v", cfg.API)
	}
	if !cfg.API.CORS.Enabled || len(cfg.API.CORS.Origins) != 1 {
		t.Errorf("cors: got %+v", cfg.API.CORS)
	}
	if cfg.Pipeline.DefaultMethod != pipeline.MethodNameRes || cfg.Pipeline.Concurrency != 4 {
		t.Errorf("pipeline: got %+v", cfg.Pipeline)
	}
	if cfg.Services.NameRes.BaseURL != "http://nameres.internal" {
		t.Errorf("nameres url should be trimmed: got %s", cfg.Services.NameRes.BaseURL)
	}
	if cfg.Services.NameRes.Burst != 1 {
		t.Errorf("nameres burst: got %d", cfg.Services.NameRes.Burst)
	}
	if cfg.Services.SAPBERT.Version != "2.1.0" {
		t.Errorf("sapbert version: got %s", cfg.Services.SAPBERT.Version)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Setenv(config.EnvEnv, "staging")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port: got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.DefaultLimit != 3 {
		t.Errorf("overlay limit: got %d", cfg.Pipeline.DefaultLimit)
	}
	if cfg.Pipeline.Concurrency != 4 {
		t.Errorf("base concurrency should survive overlay: got %d", cfg.Pipeline.Concurrency)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv("RENCI_NER_NODENORM_BASE_URL", "http://localhost:8001")
	t.Setenv("RENCI_NER_PIPELINE_DEFAULT_METHOD", pipeline.MethodNameRes)
	t.Setenv("RENCI_NER_CORS_ORIGINS", "http://a.org,http://b.org")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.Services.NodeNorm.BaseURL != "http://localhost:8001" {
		t.Errorf("nodenorm url: got %s", cfg.Services.NodeNorm.BaseURL)
	}
	if cfg.Pipeline.DefaultMethod != pipeline.MethodNameRes {
		t.Errorf("method: got %s", cfg.Pipeline.DefaultMethod)
	}
	if len(cfg.API.CORS.Origins) != 2 {
		t.Errorf("cors origins: got %v", cfg.API.CORS.Origins)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", `log_level = "loud"`},
		{"shutdown timeout", `shutdown_timeout = "soon"`},
		{"port", "[server]\nport = 70000"},
		{"base path", "[api]\nbase_path = \"/api/v1\""},
		{"body size", "[api]\nmax_body_size = \"lots\""},
		{"method", "[pipeline]\ndefault_method = \"scispacy\""},
		{"service url", "[services.biomegatron]\nbase_url = \"not a url\""},
		{"malformed toml", "[server\nport = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.toml", tt.content)
			if _, err := config.LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
