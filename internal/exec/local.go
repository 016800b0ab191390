// Package exec wraps local process execution for the external tools the
// onboarding workflow drives (git, ssh, ssh-keygen, ssh-agent). Exit codes
// and captured output are the only contract those tools offer.
package exec

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/rileyhilliard/gitstrap/internal/errors"
)

// Result holds the outcome of a captured command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr joined, trimmed of trailing whitespace.
func (r Result) Combined() string {
	return strings.TrimSpace(r.Stdout + r.Stderr)
}

// Capture runs a command with the given args and captures its output.
// A non-zero exit is not an error here; callers inspect ExitCode because
// several of the tools we drive (ssh against git servers in particular)
// exit non-zero on success paths.
func Capture(ctx context.Context, name string, args ...string) (Result, error) {
	return CaptureDir(ctx, "", name, args...)
}

// CaptureDir is Capture with an explicit working directory.
func CaptureDir(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		// A killed command still surfaces as *exec.ExitError, so the
		// context check has to come first.
		if ctx.Err() != nil {
			return res, errors.WrapWithCode(ctx.Err(), errors.ErrExec,
				"Command timed out: "+name,
				"Increase the timeout or check the tool is responsive.")
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run "+name,
			"Make sure "+name+" is installed and on your PATH.")
	}

	return res, nil
}

// Stream runs a command with output connected to the provided writers.
// Returns the exit code and any execution error.
func Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	if runErr != nil {
		if ctx.Err() != nil {
			return -1, errors.WrapWithCode(ctx.Err(), errors.ErrExec,
				"Command timed out: "+name,
				"Increase the timeout or check the tool is responsive.")
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run "+name,
			"Make sure "+name+" is installed and on your PATH.")
	}

	return 0, nil
}

// LookPath reports whether a tool is available on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
