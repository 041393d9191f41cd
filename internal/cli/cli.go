// Package cli implements the renci-ner command line. Its main job is batch
// annotation of CSV/TSV files.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/renci-ner/internal/config"
	"github.com/JaimeStill/renci-ner/internal/infrastructure"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

// app carries the state the persistent pre-run builds for subcommands.
type app struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
}

// NewRootCommand returns the renci-ner command tree.
func NewRootCommand() *cobra.Command {
	var (
		opts rootOptions
		a    app
	)

	cmd := &cobra.Command{
		Use:           "renci-ner",
		Short:         "Annotate biomedical text with the RENCI NER services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default $RENCI_NER_CONFIG or config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, or error")

	cmd.AddCommand(
		newAnnotateCommand(&a),
		newTextCommand(&a),
		newServicesCommand(&a),
		newOpenAPICommand(&a),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command, opts rootOptions) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if opts.logLevel != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(opts.logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level %q", opts.logLevel)
		}
		cfg.LogLevel = opts.logLevel
	}

	infra, err := infrastructure.New(cfg, infrastructure.WithLogOutput(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.infra = infra
	return nil
}

// start resolves service versions before any annotation is produced, so
// provenances carry real versions. The returned func releases the lifecycle.
func (a *app) start(ctx context.Context) (func(), error) {
	if err := a.infra.Start(); err != nil {
		return nil, err
	}
	if err := a.infra.Lifecycle.WaitForStartup(); err != nil {
		a.infra.Logger.WarnContext(ctx, "service discovery incomplete", "error", err)
	}

	return func() {
		if err := a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration()); err != nil {
			a.infra.Logger.Error("shutdown failed", "error", err)
		}
	}, nil
}
