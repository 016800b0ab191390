// Package gitremote wraps the git remote and push operations the onboarding
// workflow needs. All operations shell out to the git binary; its exit codes
// and output are the only contract.
package gitremote

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/exec"
	"github.com/rileyhilliard/gitstrap/internal/logger"
)

// Runner executes git with the given args in a directory and returns the
// captured result. Injectable for tests.
type Runner func(ctx context.Context, dir string, args ...string) (exec.Result, error)

// Remote is a named git remote and its fetch URL.
type Remote struct {
	Name string
	URL  string
}

// StreamRunner executes git with output streamed to a writer, returning the
// exit code. Injectable for tests.
type StreamRunner func(ctx context.Context, dir string, out io.Writer, args ...string) (int, error)

// Client performs git operations against a single repository.
type Client struct {
	dir    string
	run    Runner
	stream StreamRunner
	log    logger.Logger
}

// NewClient creates a client for the repository at dir.
// An empty dir means the current working directory.
func NewClient(dir string) *Client {
	return &Client{
		dir: dir,
		run: func(ctx context.Context, dir string, args ...string) (exec.Result, error) {
			return exec.CaptureDir(ctx, dir, "git", args...)
		},
		stream: func(ctx context.Context, dir string, out io.Writer, args ...string) (int, error) {
			return exec.Stream(ctx, dir, out, out, "git", args...)
		},
		log: logger.NewEnvLogger("[git]"),
	}
}

// SetRunner overrides the capturing git runner. Used by tests.
func (c *Client) SetRunner(run Runner) {
	c.run = run
}

// SetStreamRunner overrides the streaming git runner. Used by tests.
func (c *Client) SetStreamRunner(stream StreamRunner) {
	c.stream = stream
}

// SetLogger overrides the client logger.
func (c *Client) SetLogger(log logger.Logger) {
	c.log = log
}

// IsRepo reports whether dir is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	res, err := c.run(ctx, c.dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && res.ExitCode == 0 && strings.TrimSpace(res.Stdout) == "true"
}

// HasRemote reports whether a remote with the given name exists.
func (c *Client) HasRemote(ctx context.Context, name string) (bool, error) {
	res, err := c.run(ctx, c.dir, "remote")
	if err != nil {
		return false, err
	}
	if res.ExitCode != 0 {
		return false, errors.New(errors.ErrGit,
			"Couldn't list git remotes",
			"Run gitstrap from inside a git repository")
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// Remotes lists the configured remotes with their fetch URLs.
func (c *Client) Remotes(ctx context.Context) ([]Remote, error) {
	res, err := c.run(ctx, c.dir, "remote", "-v")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, errors.New(errors.ErrGit,
			"Couldn't list git remotes",
			"Run gitstrap from inside a git repository")
	}

	var remotes []Remote
	seen := make(map[string]bool)

	// Output format: "<name>\t<url> (fetch|push)". One entry per name.
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, url := fields[0], fields[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		remotes = append(remotes, Remote{Name: name, URL: url})
	}

	return remotes, nil
}

// ReplaceRemote removes the named remote if present and re-adds it pointing
// at url. A missing remote is benign; the add still happens.
func (c *Client) ReplaceRemote(ctx context.Context, name, url string) error {
	exists, err := c.HasRemote(ctx, name)
	if err != nil {
		return err
	}

	if exists {
		c.log.Debug("removing existing remote %s", name)
		res, err := c.run(ctx, c.dir, "remote", "remove", name)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return errors.New(errors.ErrGit,
				fmt.Sprintf("Couldn't remove remote %q: %s", name, res.Combined()),
				"Check the repository state with: git remote -v")
		}
	}

	res, err := c.run(ctx, c.dir, "remote", "add", name, url)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errors.New(errors.ErrGit,
			fmt.Sprintf("Couldn't add remote %q: %s", name, res.Combined()),
			"Check the URL and repository state")
	}

	return nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	res, err := c.run(ctx, c.dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", errors.New(errors.ErrGit,
			"Couldn't determine the current branch",
			"Make sure the repository has at least one commit")
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Push pushes branch to the named remote with upstream tracking, streaming
// git's output to out. Returns an error on a non-zero exit.
func (c *Client) Push(ctx context.Context, out io.Writer, remote, branch string) error {
	code, err := c.stream(ctx, c.dir, out, "push", "-u", remote, branch)
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.New(errors.ErrGit,
			fmt.Sprintf("Push of %s to %s failed (exit %d)", branch, remote, code),
			"Check the git output above; the branch must exist locally and the key must be authorized")
	}
	return nil
}
