package service_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/renci-ner/pkg/service"
)

func TestConfigFinalize(t *testing.T) {
	defaults := &service.Config{BaseURL: "https://nodenormalization-sri.renci.org", Timeout: "10s"}

	t.Run("defaults", func(t *testing.T) {
		var cfg service.Config
		if err := cfg.Finalize(defaults, nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.BaseURL != defaults.BaseURL {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.TimeoutDuration() != 10*time.Second {
			t.Errorf("Timeout = %v", cfg.TimeoutDuration())
		}
	})

	t.Run("file values win over defaults", func(t *testing.T) {
		cfg := service.Config{BaseURL: "http://localhost:8080/"}
		if err := cfg.Finalize(defaults, nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.BaseURL != "http://localhost:8080" {
			t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_NODENORM_BASE_URL", "http://nodenorm.test")
		t.Setenv("TEST_NODENORM_RATE_LIMIT", "2.5")

		var cfg service.Config
		if err := cfg.Finalize(defaults, service.NewEnv("TEST_NODENORM")); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.BaseURL != "http://nodenorm.test" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.RateLimit != 2.5 || cfg.Burst != 1 {
			t.Errorf("RateLimit = %v, Burst = %d", cfg.RateLimit, cfg.Burst)
		}
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  service.Config
	}{
		{"missing url", service.Config{}},
		{"relative url", service.Config{BaseURL: "nodenorm"}},
		{"bad timeout", service.Config{BaseURL: "http://x.test", Timeout: "soon"}},
		{"negative rate", service.Config{BaseURL: "http://x.test", RateLimit: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil, nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := service.Config{BaseURL: "http://a.test", Timeout: "5s", Version: "1"}
	base.Merge(&service.Config{BaseURL: "http://b.test", Burst: 3})

	if base.BaseURL != "http://b.test" || base.Timeout != "5s" || base.Version != "1" || base.Burst != 3 {
		t.Errorf("unexpected merge result %+v", base)
	}
}
