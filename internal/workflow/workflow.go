// Package workflow runs the onboarding sequence: replace the git remote,
// ensure an SSH keypair, load it into an agent, wait for the operator to
// upload the public key, verify authentication, and push the branch.
// Execution is strictly sequential and fail-fast: the first failing step
// aborts the run with no rollback of steps already performed.
package workflow

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/gitstrap/internal/agent"
	"github.com/rileyhilliard/gitstrap/internal/config"
	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/gitremote"
	"github.com/rileyhilliard/gitstrap/internal/keys"
	"github.com/rileyhilliard/gitstrap/internal/logger"
	"github.com/rileyhilliard/gitstrap/internal/probe"
	"github.com/rileyhilliard/gitstrap/internal/ui"
)

// Options configures a workflow run.
type Options struct {
	Config *config.Config
	Dir    string    // repository directory; empty means cwd
	Out    io.Writer // defaults to os.Stdout
	Gate   Gate      // defaults to InteractiveGate
	Quiet  bool      // suppress spinners (plain line output)
}

// Runner executes the onboarding steps in order.
type Runner struct {
	cfg    *config.Config
	git    *gitremote.Client
	prober *probe.Prober
	gate   Gate
	out    io.Writer
	quiet  bool
	log    logger.Logger

	// Seams for tests; default to the real packages.
	ensureKey   func(ctx context.Context, path, keyType, comment string) (keys.KeyInfo, bool, error)
	readPub     func(pubPath string) (string, error)
	ensureAgent func(ctx context.Context) (agent.Env, bool, error)
	registerKey func(env agent.Env, keyPath, pubKey, comment string) error

	// State threaded between steps.
	key    keys.KeyInfo
	pubKey string
}

// New creates a Runner from options.
func New(opts Options) *Runner {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	gate := opts.Gate
	if gate == nil {
		gate = InteractiveGate(out)
	}

	return &Runner{
		cfg:         opts.Config,
		git:         gitremote.NewClient(opts.Dir),
		prober:      probe.New(),
		gate:        gate,
		out:         out,
		quiet:       opts.Quiet,
		log:         logger.NewEnvLogger("[workflow]"),
		ensureKey:   keys.Ensure,
		readPub:     keys.ReadPublicKey,
		ensureAgent: agent.Ensure,
		registerKey: registerKeyWithAgent,
	}
}

// Run executes the six onboarding steps in strict sequence.
func (r *Runner) Run(ctx context.Context) error {
	if !r.git.IsRepo(ctx) {
		return errors.New(errors.ErrGit,
			"Not inside a git repository",
			"Run gitstrap from the repository you want to publish")
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"Configuring remote", r.stepRemote},
		{"Ensuring SSH key", r.stepKey},
		{"Loading key into agent", r.stepAgent},
		{"Waiting for key upload", r.stepGate},
		{"Verifying authentication", r.stepProbe},
		{"Pushing branch", r.stepPublish},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return err
		}
	}

	style := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	fmt.Fprintf(r.out, "\n%s Onboarding complete. %s tracks %s/%s.\n",
		style.Render(ui.SymbolSuccess), r.cfg.Branch, r.cfg.Remote.Name, r.cfg.Branch)

	return nil
}

// stepRemote replaces the configured remote and reports the remote list.
func (r *Runner) stepRemote(ctx context.Context) error {
	sp := r.startSpinner("Configuring remote " + r.cfg.Remote.Name)

	if err := r.git.ReplaceRemote(ctx, r.cfg.Remote.Name, r.cfg.Remote.URL); err != nil {
		sp.Fail()
		return err
	}

	remotes, err := r.git.Remotes(ctx)
	if err != nil {
		sp.Fail()
		return err
	}

	sp.Success()
	for _, remote := range remotes {
		fmt.Fprintf(r.out, "  %s\t%s\n", remote.Name, remote.URL)
	}
	return nil
}

// stepKey ensures the keypair exists, generating one if absent.
func (r *Runner) stepKey(ctx context.Context) error {
	sp := r.startSpinner("Ensuring SSH key at " + r.cfg.Key.Path)

	info, created, err := r.ensureKey(ctx, r.cfg.Key.Path, r.cfg.Key.Type, r.cfg.Key.Comment)
	if err != nil {
		sp.Fail()
		return err
	}
	r.key = info

	r.pubKey, err = r.readPub(info.PublicPath)
	if err != nil {
		sp.Fail()
		return err
	}

	sp.Success()
	if created {
		fmt.Fprintf(r.out, "  generated new %s keypair\n", info.Type)
	} else {
		fmt.Fprintf(r.out, "  using existing %s keypair\n", info.Type)
	}

	if fp, err := keys.Fingerprint(r.pubKey); err == nil {
		fmt.Fprintf(r.out, "  fingerprint %s\n", fp)
	}
	return nil
}

// stepAgent ensures an agent is running and holds the key.
func (r *Runner) stepAgent(ctx context.Context) error {
	sp := r.startSpinner("Loading key into SSH agent")

	env, started, err := r.ensureAgent(ctx)
	if err != nil {
		sp.Fail()
		return err
	}

	if err := r.registerKey(env, r.key.Path, r.pubKey, r.cfg.Key.Comment); err != nil {
		sp.Fail()
		return err
	}

	sp.Success()
	if started {
		fmt.Fprintf(r.out, "  started ssh-agent (socket %s)\n", env.AuthSock)
	} else {
		fmt.Fprintln(r.out, "  reused running ssh-agent")
	}
	return nil
}

// stepGate displays the public key and blocks until the operator confirms
// the upload. No timeout: the wait is indefinite.
func (r *Runner) stepGate(ctx context.Context) error {
	if r.cfg.Gate.Skip {
		fmt.Fprintf(r.out, "%s Skipping upload confirmation (gate.skip)\n", ui.SymbolSkipped)
		return nil
	}
	return r.gate(ctx, r.pubKey)
}

// stepProbe verifies authentication against the probe host.
func (r *Runner) stepProbe(ctx context.Context) error {
	host := r.cfg.ProbeHost()
	sp := r.startSpinner("Verifying authentication against " + host)

	res, err := r.prober.Auth(ctx, host, r.cfg.Probe.Marker, r.cfg.Probe.Timeout)
	if err != nil {
		sp.Fail()
		return err
	}

	if !res.Authenticated {
		sp.Fail()
		r.log.Debug("probe output: %s", res.Output)
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Authentication to %s failed: %s", host, res.Reason),
			"Make sure the public key shown above is uploaded to your hosting provider, then re-run")
	}

	sp.Success()
	fmt.Fprintf(r.out, "  authenticated in %dms\n", res.Latency.Milliseconds())
	return nil
}

// stepPublish pushes the branch with upstream tracking.
func (r *Runner) stepPublish(ctx context.Context) error {
	fmt.Fprintf(r.out, "%s Pushing %s to %s\n", ui.SymbolProgress, r.cfg.Branch, r.cfg.Remote.Name)
	return r.git.Push(ctx, r.out, r.cfg.Remote.Name, r.cfg.Branch)
}

// startSpinner begins a spinner unless quiet mode renders plain lines.
func (r *Runner) startSpinner(label string) *ui.Spinner {
	sp := ui.NewSpinner(label)
	if r.quiet {
		sp.SetOutput(func(string) {})
	} else {
		sp.SetOutput(func(s string) { fmt.Fprint(r.out, s) })
	}
	sp.Start()
	return sp
}

// registerKeyWithAgent connects to the agent and adds the key unless the
// agent already holds it.
func registerKeyWithAgent(env agent.Env, keyPath, pubKey, comment string) error {
	conn, err := agent.Connect(env)
	if err != nil {
		return err
	}
	defer conn.Close()

	if pubKey != "" {
		if has, err := agent.HasKey(conn, pubKey); err == nil && has {
			return nil
		}
	}

	return agent.AddKey(conn, keyPath, comment)
}
