package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gitstrap/internal/config"
	"github.com/rileyhilliard/gitstrap/internal/doctor"
)

func TestCollectChecksWithDefaults(t *testing.T) {
	cfg := config.DefaultConfig()

	checks := collectChecks(cfg)

	names := map[string]bool{}
	for _, c := range checks {
		names[c.Name()] = true
	}

	// Tool checks always run.
	for _, bin := range []string{"git", "ssh", "ssh-keygen", "ssh-agent"} {
		assert.True(t, names["binary_"+bin], "should include binary check for %s", bin)
	}
	assert.True(t, names["ssh_key"])
	assert.True(t, names["ssh_agent"])
	assert.True(t, names["git_repo"])

	// No remote URL configured: no probe host, no remote check.
	assert.False(t, names["probe_host"])
	assert.False(t, names["git_remote"])
}

func TestCollectChecksWithRemote(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Remote.URL = "git@github.com:user/repo.git"

	checks := collectChecks(cfg)

	names := map[string]bool{}
	for _, c := range checks {
		names[c.Name()] = true
	}

	assert.True(t, names["probe_host"], "SSH remote URL should yield a probe host check")
	assert.True(t, names["git_remote"])
}

func TestStatusSymbolsAreDistinct(t *testing.T) {
	pass := statusSymbol(doctor.StatusPass)
	warn := statusSymbol(doctor.StatusWarn)
	fail := statusSymbol(doctor.StatusFail)

	assert.NotEqual(t, pass, warn, "warn must not share the pass glyph")
	assert.NotEqual(t, warn, fail)
	assert.NotEqual(t, pass, fail)
}

func TestPluralSuffix(t *testing.T) {
	assert.Equal(t, "s", pluralSuffix(0))
	assert.Equal(t, "", pluralSuffix(1))
	assert.Equal(t, "s", pluralSuffix(2))
}

func TestDoctorSummaryAllClear(t *testing.T) {
	results := []doctor.CheckResult{
		{Name: "a", Status: doctor.StatusPass},
		{Name: "b", Status: doctor.StatusPass},
	}

	pass, warn, fail := doctor.Summarize(results)
	require.Equal(t, 2, pass)
	assert.Zero(t, warn)
	assert.Zero(t, fail)
}
