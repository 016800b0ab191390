// Package probe verifies SSH authentication against a git hosting provider.
// Hosts like GitHub refuse a shell but print a greeting on successful auth,
// so the probe shells out to `ssh -T` and looks for a known success marker
// in the output rather than trusting the exit code.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/gitstrap/internal/exec"
	"github.com/rileyhilliard/gitstrap/internal/logger"
)

// FailReason categorizes why a probe failed.
type FailReason int

const (
	FailUnknown FailReason = iota
	FailTimeout
	FailUnreachable
	FailAuth
	FailHostKey
)

// String returns a human-readable description of the failure reason.
func (r FailReason) String() string {
	switch r {
	case FailTimeout:
		return "connection timed out"
	case FailUnreachable:
		return "host unreachable"
	case FailAuth:
		return "authentication failed"
	case FailHostKey:
		return "host key verification failed"
	default:
		return "unknown error"
	}
}

// Result contains the outcome of an authentication probe.
type Result struct {
	Host          string
	Output        string
	Authenticated bool
	Reason        FailReason
	Latency       time.Duration
}

// Runner executes the ssh binary. Injectable for tests.
type Runner func(ctx context.Context, name string, args ...string) (exec.Result, error)

// Prober runs authentication probes.
type Prober struct {
	run Runner
	log logger.Logger
}

// New creates a Prober that shells out to ssh.
func New() *Prober {
	return &Prober{
		run: exec.Capture,
		log: logger.NewEnvLogger("[probe]"),
	}
}

// SetRunner overrides the ssh runner. Used by tests.
func (p *Prober) SetRunner(run Runner) {
	p.run = run
}

// Auth probes host with `ssh -T` and reports whether the output contains
// marker. The exit code is ignored on purpose: git servers exit non-zero
// even when authentication succeeds.
func (p *Prober) Auth(ctx context.Context, host, marker string, timeout time.Duration) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := []string{
		"-T",
		"-o", "BatchMode=yes", // never hang on a password prompt
		"-o", "StrictHostKeyChecking=accept-new",
	}
	if timeout > 0 {
		args = append(args, "-o", fmt.Sprintf("ConnectTimeout=%d", int(timeout.Seconds())))
	}
	args = append(args, host)

	start := time.Now()
	res, err := p.run(ctx, "ssh", args...)
	latency := time.Since(start)

	output := res.Combined()
	p.log.Debug("probe %s exit=%d output=%q", host, res.ExitCode, output)

	result := &Result{
		Host:    host,
		Output:  output,
		Latency: latency,
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.Reason = FailTimeout
			return result, nil
		}
		return nil, err
	}

	if strings.Contains(output, marker) {
		result.Authenticated = true
		return result, nil
	}

	result.Reason = categorize(output, ctx)
	return result, nil
}

// categorize maps ssh output onto a failure reason.
func categorize(output string, ctx context.Context) FailReason {
	if ctx.Err() == context.DeadlineExceeded {
		return FailTimeout
	}

	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "permission denied"):
		return FailAuth
	case strings.Contains(lower, "host key verification failed"),
		strings.Contains(lower, "remote host identification has changed"):
		return FailHostKey
	case strings.Contains(lower, "could not resolve hostname"),
		strings.Contains(lower, "no route to host"),
		strings.Contains(lower, "network is unreachable"),
		strings.Contains(lower, "connection refused"):
		return FailUnreachable
	case strings.Contains(lower, "connection timed out"),
		strings.Contains(lower, "operation timed out"):
		return FailTimeout
	default:
		return FailUnknown
	}
}
