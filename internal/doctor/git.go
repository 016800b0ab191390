package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/gitstrap/internal/gitremote"
)

// RepoCheck verifies the working directory is a git repository.
type RepoCheck struct {
	Dir string
}

func (c *RepoCheck) Name() string     { return "git_repo" }
func (c *RepoCheck) Category() string { return "GIT" }

func (c *RepoCheck) Run() CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !gitremote.NewClient(c.Dir).IsRepo(ctx) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Not inside a git repository",
			Suggestion: "Run gitstrap from the repository you want to publish",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Inside a git repository",
	}
}

// RemoteCheck reports the state of the configured remote.
type RemoteCheck struct {
	Dir        string
	RemoteName string
	WantURL    string
}

func (c *RemoteCheck) Name() string     { return "git_remote" }
func (c *RemoteCheck) Category() string { return "GIT" }

func (c *RemoteCheck) Run() CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	remotes, err := gitremote.NewClient(c.Dir).Remotes(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Couldn't list git remotes",
			Suggestion: "Run gitstrap from inside a git repository",
		}
	}

	for _, r := range remotes {
		if r.Name != c.RemoteName {
			continue
		}
		if c.WantURL != "" && r.URL != c.WantURL {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusWarn,
				Message:    fmt.Sprintf("Remote %q points at %s, config says %s", r.Name, r.URL, c.WantURL),
				Suggestion: "gitstrap up replaces the remote with the configured URL",
			}
		}
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Remote %q -> %s", r.Name, r.URL),
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("Remote %q not configured yet", c.RemoteName),
		Suggestion: "gitstrap up adds it",
	}
}
