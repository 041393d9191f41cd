package config

import (
	"fmt"

	"github.com/JaimeStill/renci-ner/internal/biomegatron"
	"github.com/JaimeStill/renci-ner/internal/nameres"
	"github.com/JaimeStill/renci-ner/internal/nodenorm"
	"github.com/JaimeStill/renci-ner/internal/sapbert"
	"github.com/JaimeStill/renci-ner/pkg/service"
)

// ServicesConfig holds one client config per remote annotation service.
// Unset base URLs fall back to the public RENCI deployments.
type ServicesConfig struct {
	BioMegatron service.Config `toml:"biomegatron"`
	NameRes     service.Config `toml:"nameres"`
	SAPBERT     service.Config `toml:"sapbert"`
	NodeNorm    service.Config `toml:"nodenorm"`
}

type serviceEntry struct {
	key      string
	cfg      *service.Config
	defaults *service.Config
	env      *service.Env
}

func (c *ServicesConfig) entries() []serviceEntry {
	return []serviceEntry{
		{"biomegatron", &c.BioMegatron, &service.Config{BaseURL: biomegatron.DefaultURL}, service.NewEnv("RENCI_NER_BIOMEGATRON")},
		{"nameres", &c.NameRes, &service.Config{BaseURL: nameres.DefaultURL}, service.NewEnv("RENCI_NER_NAMERES")},
		{"sapbert", &c.SAPBERT, &service.Config{BaseURL: sapbert.DefaultURL}, service.NewEnv("RENCI_NER_SAPBERT")},
		{"nodenorm", &c.NodeNorm, &service.Config{BaseURL: nodenorm.DefaultURL}, service.NewEnv("RENCI_NER_NODENORM")},
	}
}

// Finalize finalizes every service config against its defaults and
// RENCI_NER_<SERVICE>_* variables.
func (c *ServicesConfig) Finalize() error {
	for _, e := range c.entries() {
		if err := e.cfg.Finalize(e.defaults, e.env); err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay for every service.
func (c *ServicesConfig) Merge(overlay *ServicesConfig) {
	c.BioMegatron.Merge(&overlay.BioMegatron)
	c.NameRes.Merge(&overlay.NameRes)
	c.SAPBERT.Merge(&overlay.SAPBERT)
	c.NodeNorm.Merge(&overlay.NodeNorm)
}
