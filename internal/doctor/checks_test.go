package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatusString(t *testing.T) {
	assert.Equal(t, "pass", StatusPass.String())
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "fail", StatusFail.String())
	assert.Equal(t, "unknown", CheckStatus(99).String())
}

func TestBinaryCheck(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		c := &BinaryCheck{Binary: "git", lookPath: func(string) bool { return true }}

		res := c.Run()

		assert.Equal(t, StatusPass, res.Status)
		assert.Contains(t, res.Message, "git found")
	})

	t.Run("missing", func(t *testing.T) {
		c := &BinaryCheck{
			Binary:   "ssh-keygen",
			Install:  "Install the OpenSSH client package",
			lookPath: func(string) bool { return false },
		}

		res := c.Run()

		assert.Equal(t, StatusFail, res.Status)
		assert.Equal(t, "Install the OpenSSH client package", res.Suggestion)
	})
}

func TestRequiredBinaryChecks(t *testing.T) {
	checks := RequiredBinaryChecks()

	require.Len(t, checks, 4)
	names := make(map[string]bool)
	for _, c := range checks {
		names[c.Name()] = true
		assert.Equal(t, "TOOLS", c.Category())
	}
	assert.True(t, names["binary_git"])
	assert.True(t, names["binary_ssh"])
	assert.True(t, names["binary_ssh-keygen"])
	assert.True(t, names["binary_ssh-agent"])
}

func TestKeyCheckMissing(t *testing.T) {
	c := &KeyCheck{Path: filepath.Join(t.TempDir(), "id_ed25519")}

	res := c.Run()

	assert.Equal(t, StatusWarn, res.Status)
	assert.Contains(t, res.Message, "No keypair")
}

func TestKeyCheckPresent(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath+".pub", []byte("ssh-ed25519 AAAA x"), 0o644))

	res := (&KeyCheck{Path: keyPath}).Run()

	assert.Equal(t, StatusPass, res.Status)
	assert.Contains(t, res.Message, keyPath)
}

func TestAgentCheckNoSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")
	t.Setenv("SSH_AGENT_PID", "")

	res := (&AgentCheck{}).Run()

	assert.Equal(t, StatusWarn, res.Status)
	assert.Contains(t, res.Message, "not running")
}

func TestAgentCheckDeadSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", filepath.Join(t.TempDir(), "gone.sock"))

	res := (&AgentCheck{}).Run()

	assert.Equal(t, StatusWarn, res.Status)
}

func TestProbeHostCheck(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		res := (&ProbeHostCheck{Host: "git@github.com"}).Run()

		assert.Equal(t, StatusPass, res.Status)
		assert.Contains(t, res.Message, "git@github.com")
	})

	t.Run("missing", func(t *testing.T) {
		res := (&ProbeHostCheck{}).Run()

		assert.Equal(t, StatusFail, res.Status)
	})
}

func TestRunAllAndSummarize(t *testing.T) {
	checks := []Check{
		&BinaryCheck{Binary: "a", lookPath: func(string) bool { return true }},
		&BinaryCheck{Binary: "b", lookPath: func(string) bool { return false }},
		&KeyCheck{Path: filepath.Join(t.TempDir(), "id_ed25519")},
	}

	results := RunAll(checks)
	require.Len(t, results, 3)

	pass, warn, fail := Summarize(results)
	assert.Equal(t, 1, pass)
	assert.Equal(t, 1, warn)
	assert.Equal(t, 1, fail)
}

func TestRepoCheckOutsideRepo(t *testing.T) {
	res := (&RepoCheck{Dir: t.TempDir()}).Run()

	assert.Equal(t, StatusFail, res.Status)
}
