package gitremote

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/exec"
	"github.com/rileyhilliard/gitstrap/internal/logger"
)

// fakeGit replays canned results per git subcommand and records invocations.
type fakeGit struct {
	results map[string]exec.Result
	calls   []string
}

func (f *fakeGit) runner() Runner {
	return func(ctx context.Context, dir string, args ...string) (exec.Result, error) {
		key := strings.Join(args, " ")
		f.calls = append(f.calls, key)
		if res, ok := f.results[key]; ok {
			return res, nil
		}
		return exec.Result{ExitCode: 0}, nil
	}
}

func newFakeClient(f *fakeGit) *Client {
	c := NewClient("")
	c.SetRunner(f.runner())
	c.SetLogger(logger.Noop())
	return c
}

func TestIsRepo(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"rev-parse --is-inside-work-tree": {Stdout: "true\n"},
	}}

	assert.True(t, newFakeClient(f).IsRepo(context.Background()))
}

func TestIsRepoOutsideRepo(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"rev-parse --is-inside-work-tree": {Stderr: "fatal: not a git repository", ExitCode: 128},
	}}

	assert.False(t, newFakeClient(f).IsRepo(context.Background()))
}

func TestHasRemote(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"remote": {Stdout: "origin\nupstream\n"},
	}}
	c := newFakeClient(f)

	got, err := c.HasRemote(context.Background(), "origin")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = c.HasRemote(context.Background(), "fork")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRemotes(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"remote -v": {Stdout: "origin\tgit@github.com:a/b.git (fetch)\n" +
			"origin\tgit@github.com:a/b.git (push)\n" +
			"upstream\tgit@github.com:c/d.git (fetch)\n" +
			"upstream\tgit@github.com:c/d.git (push)\n"},
	}}

	remotes, err := newFakeClient(f).Remotes(context.Background())

	require.NoError(t, err)
	require.Len(t, remotes, 2)
	assert.Equal(t, Remote{Name: "origin", URL: "git@github.com:a/b.git"}, remotes[0])
	assert.Equal(t, Remote{Name: "upstream", URL: "git@github.com:c/d.git"}, remotes[1])
}

func TestRemotesEmpty(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"remote -v": {Stdout: ""},
	}}

	remotes, err := newFakeClient(f).Remotes(context.Background())

	require.NoError(t, err)
	assert.Empty(t, remotes)
}

func TestReplaceRemoteExisting(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"remote": {Stdout: "origin\n"},
	}}
	c := newFakeClient(f)

	err := c.ReplaceRemote(context.Background(), "origin", "git@github.com:a/b.git")

	require.NoError(t, err)
	assert.Contains(t, f.calls, "remote remove origin")
	assert.Contains(t, f.calls, "remote add origin git@github.com:a/b.git")
}

func TestReplaceRemoteMissingIsBenign(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"remote": {Stdout: ""},
	}}
	c := newFakeClient(f)

	err := c.ReplaceRemote(context.Background(), "origin", "git@github.com:a/b.git")

	require.NoError(t, err)
	assert.NotContains(t, f.calls, "remote remove origin")
	assert.Contains(t, f.calls, "remote add origin git@github.com:a/b.git")
}

func TestReplaceRemoteAddFails(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"remote": {Stdout: ""},
		"remote add origin git@github.com:a/b.git": {Stderr: "fatal: bad URL", ExitCode: 128},
	}}
	c := newFakeClient(f)

	err := c.ReplaceRemote(context.Background(), "origin", "git@github.com:a/b.git")

	require.Error(t, err)
	assert.True(t, gserrors.IsCode(err, gserrors.ErrGit))
}

func TestCurrentBranch(t *testing.T) {
	f := &fakeGit{results: map[string]exec.Result{
		"rev-parse --abbrev-ref HEAD": {Stdout: "main\n"},
	}}

	branch, err := newFakeClient(f).CurrentBranch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestPush(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		wantErr  bool
	}{
		{name: "success", exitCode: 0, wantErr: false},
		{name: "rejected", exitCode: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotArgs []string
			c := newFakeClient(&fakeGit{})
			c.SetStreamRunner(func(ctx context.Context, dir string, out io.Writer, args ...string) (int, error) {
				gotArgs = args
				return tt.exitCode, nil
			})

			var out bytes.Buffer
			err := c.Push(context.Background(), &out, "origin", "main")

			assert.Equal(t, []string{"push", "-u", "origin", "main"}, gotArgs)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, gserrors.IsCode(err, gserrors.ErrGit))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
