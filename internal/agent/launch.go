package agent

import (
	"context"

	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/exec"
)

// Start launches a detached ssh-agent process and returns its environment.
// The agent outlives this process; the workflow only launches it and
// registers one key.
func Start(ctx context.Context) (Env, error) {
	res, err := exec.Capture(ctx, "ssh-agent", "-s")
	if err != nil {
		return Env{}, err
	}
	if res.ExitCode != 0 {
		return Env{}, errors.New(errors.ErrAgent,
			"ssh-agent failed to start: "+res.Combined(),
			"Ensure ssh-agent is installed and accessible")
	}

	return parseAgentOutput(res.Stdout)
}

// Ensure returns a usable agent environment, reusing the caller's agent when
// its socket is reachable and starting a fresh one otherwise. The returned
// environment is exported to this process either way. Reports whether a new
// agent was started.
func Ensure(ctx context.Context) (Env, bool, error) {
	if env := CurrentEnv(); env.Reachable() {
		return env, false, nil
	}

	env, err := Start(ctx)
	if err != nil {
		return Env{}, false, err
	}

	if err := env.Apply(); err != nil {
		return Env{}, false, err
	}

	return env, true, nil
}
