package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/gitstrap/internal/config"
	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/ui"
	"github.com/rileyhilliard/gitstrap/internal/workflow"
)

// upCommand implements the up command logic.
func upCommand(urlArg string, yes, quiet bool, branch string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	// Command line overrides
	if urlArg != "" {
		cfg.Remote.URL = urlArg
	}
	if branch != "" {
		cfg.Branch = branch
	}
	if yes {
		cfg.Gate.Skip = true
	}

	if cfg.Remote.URL == "" {
		return errors.New(errors.ErrConfig,
			"No remote URL configured",
			"Pass the SSH URL as an argument (gitstrap up git@host:user/repo.git) or run 'gitstrap init'")
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	colorMode := cfg.Output.Color
	if noColorFlag {
		colorMode = "never"
	}
	ui.ConfigureColorProfile(colorMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := workflow.New(workflow.Options{
		Config: cfg,
		Out:    os.Stdout,
		Quiet:  quiet,
	})

	return runner.Run(ctx)
}
