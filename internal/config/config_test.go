package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/rileyhilliard/gitstrap/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "origin", cfg.Remote.Name)
	assert.Equal(t, "~/.ssh/id_ed25519", cfg.Key.Path)
	assert.Equal(t, "ed25519", cfg.Key.Type)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "successfully authenticated", cfg.Probe.Marker)
	assert.Equal(t, 15*time.Second, cfg.Probe.Timeout)
	assert.False(t, cfg.Gate.Skip)
}

func TestDeriveProbeHost(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "scp style github",
			url:  "git@github.com:octocat/hello.git",
			want: "git@github.com",
		},
		{
			name: "scp style gitlab",
			url:  "git@gitlab.com:group/project.git",
			want: "git@gitlab.com",
		},
		{
			name: "ssh url",
			url:  "ssh://git@bitbucket.org/team/repo.git",
			want: "git@bitbucket.org",
		},
		{
			name: "ssh url with port",
			url:  "ssh://git@git.example.com:2222/repo.git",
			want: "git@git.example.com",
		},
		{
			name: "https url not derivable",
			url:  "https://github.com/octocat/hello.git",
			want: "",
		},
		{
			name: "empty url",
			url:  "",
			want: "",
		},
		{
			name: "local path",
			url:  "/srv/git/repo.git",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveProbeHost(tt.url))
		})
	}
}

func TestProbeHostPrefersExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Remote.URL = "git@github.com:octocat/hello.git"
	cfg.Probe.Host = "git@internal-mirror"

	assert.Equal(t, "git@internal-mirror", cfg.ProbeHost())
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	content := `version: 1
remote:
  name: upstream
  url: git@github.com:octocat/hello.git
key:
  path: ~/.ssh/id_ed25519
  type: ed25519
branch: trunk
probe:
  marker: successfully authenticated
  timeout: 30s
gate:
  skip: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Remote.Name)
	assert.Equal(t, "git@github.com:octocat/hello.git", cfg.Remote.URL)
	assert.Equal(t, "trunk", cfg.Branch)
	assert.Equal(t, 30*time.Second, cfg.Probe.Timeout)
	assert.True(t, cfg.Gate.Skip)
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	content := `remote:
  url: git@github.com:octocat/hello.git
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "origin", cfg.Remote.Name)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "successfully authenticated", cfg.Probe.Marker)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, gserrors.IsCode(err, gserrors.ErrConfig))
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.True(t, gserrors.IsCode(err, gserrors.ErrConfig))
}

func TestFindInCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	t.Chdir(dir)

	found, err := Find("")
	require.NoError(t, err)

	// Resolve symlinks (macOS tmpdir) before comparing
	wantDir, _ := filepath.EvalSymlinks(dir)
	gotDir, _ := filepath.EvalSymlinks(filepath.Dir(found))
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, ConfigFileName, filepath.Base(found))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Remote.URL = "git@github.com:octocat/hello.git"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing remote url",
			mutate:  func(c *Config) { c.Remote.URL = "" },
			wantErr: true,
		},
		{
			name:    "empty remote name",
			mutate:  func(c *Config) { c.Remote.Name = "" },
			wantErr: true,
		},
		{
			name:    "remote name with spaces",
			mutate:  func(c *Config) { c.Remote.Name = "my origin" },
			wantErr: true,
		},
		{
			name:    "empty key path",
			mutate:  func(c *Config) { c.Key.Path = "" },
			wantErr: true,
		},
		{
			name:    "bogus key type",
			mutate:  func(c *Config) { c.Key.Type = "dsa" },
			wantErr: true,
		},
		{
			name:    "empty branch",
			mutate:  func(c *Config) { c.Branch = "" },
			wantErr: true,
		},
		{
			name:    "https remote without probe host",
			mutate:  func(c *Config) { c.Remote.URL = "https://github.com/octocat/hello.git" },
			wantErr: true,
		},
		{
			name: "https remote with explicit probe host",
			mutate: func(c *Config) {
				c.Remote.URL = "https://github.com/octocat/hello.git"
				c.Probe.Host = "git@github.com"
			},
			wantErr: true, // still rejected: workflow pushes over SSH
		},
		{
			name:    "empty marker",
			mutate:  func(c *Config) { c.Probe.Marker = "" },
			wantErr: true,
		},
		{
			name:    "negative probe timeout",
			mutate:  func(c *Config) { c.Probe.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: true,
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.Output.Color = "rainbow" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
