package config

import (
	"strings"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults baked into the binary. Running with no config file and no flags
// uses exactly these values (plus a remote URL, which has no sensible
// universal default and must be supplied).
const (
	DefaultRemoteName  = "origin"
	DefaultKeyPath     = "~/.ssh/id_ed25519"
	DefaultKeyType     = "ed25519"
	DefaultBranch      = "main"
	DefaultProbeMarker = "successfully authenticated"
)

// DefaultProbeTimeout bounds how long the authentication probe may take.
const DefaultProbeTimeout = 15 * time.Second

// Config represents the complete .gitstrap.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	Remote  RemoteConfig `yaml:"remote" mapstructure:"remote"`
	Key     KeyConfig    `yaml:"key" mapstructure:"key"`
	Branch  string       `yaml:"branch" mapstructure:"branch"`
	Probe   ProbeConfig  `yaml:"probe" mapstructure:"probe"`
	Gate    GateConfig   `yaml:"gate" mapstructure:"gate"`
	Output  OutputConfig `yaml:"output" mapstructure:"output"`
}

// RemoteConfig names the git remote the workflow replaces and pushes to.
type RemoteConfig struct {
	// Name of the remote (removed and re-added by the workflow).
	Name string `yaml:"name" mapstructure:"name"`

	// URL the remote points at after replacement (SSH form, e.g.
	// git@github.com:user/repo.git).
	URL string `yaml:"url" mapstructure:"url"`
}

// KeyConfig locates the SSH keypair the workflow ensures and loads.
type KeyConfig struct {
	// Path to the private key. The public key lives at Path + ".pub".
	Path string `yaml:"path" mapstructure:"path"`

	// Type passed to ssh-keygen when generating (ed25519, rsa, ecdsa).
	Type string `yaml:"type" mapstructure:"type"`

	// Comment embedded in a generated key. Empty means ssh-keygen's default.
	Comment string `yaml:"comment" mapstructure:"comment"`
}

// ProbeConfig controls the authentication probe.
type ProbeConfig struct {
	// Host probed with `ssh -T`. Empty means derived from the remote URL.
	Host string `yaml:"host" mapstructure:"host"`

	// Marker substring that must appear in the probe output for success.
	Marker string `yaml:"marker" mapstructure:"marker"`

	// Timeout for the probe invocation.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GateConfig controls the operator confirmation step.
type GateConfig struct {
	// Skip bypasses the confirmation wait. Meant for re-runs where the key
	// is already uploaded, and for CI.
	Skip bool `yaml:"skip" mapstructure:"skip"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with the embedded defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Remote: RemoteConfig{
			Name: DefaultRemoteName,
		},
		Key: KeyConfig{
			Path: DefaultKeyPath,
			Type: DefaultKeyType,
		},
		Branch: DefaultBranch,
		Probe: ProbeConfig{
			Marker:  DefaultProbeMarker,
			Timeout: DefaultProbeTimeout,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// MarshalYAML writes the timeout as a duration string ("15s") rather than
// raw nanoseconds, so generated config files stay readable.
func (p ProbeConfig) MarshalYAML() (interface{}, error) {
	out := struct {
		Host    string `yaml:"host,omitempty"`
		Marker  string `yaml:"marker"`
		Timeout string `yaml:"timeout"`
	}{
		Host:   p.Host,
		Marker: p.Marker,
	}
	if p.Timeout > 0 {
		out.Timeout = p.Timeout.String()
	}
	return out, nil
}

// ProbeHost returns the configured probe host, deriving one from the remote
// URL when unset. For scp-style URLs (git@github.com:user/repo.git) the part
// before the colon is the probe target; for ssh:// URLs it is the authority.
func (c *Config) ProbeHost() string {
	if c.Probe.Host != "" {
		return c.Probe.Host
	}
	return DeriveProbeHost(c.Remote.URL)
}

// DeriveProbeHost extracts the user@host portion of an SSH remote URL.
// Returns empty string when the URL isn't an SSH form we recognize.
func DeriveProbeHost(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	if rest, ok := strings.CutPrefix(url, "ssh://"); ok {
		authority, _, _ := strings.Cut(rest, "/")
		// Strip an explicit port; ssh -T takes it separately
		if at := strings.LastIndex(authority, ":"); at != -1 {
			authority = authority[:at]
		}
		return authority
	}

	// scp-like syntax: user@host:path
	if host, _, ok := strings.Cut(url, ":"); ok && strings.Contains(host, "@") {
		return host
	}

	return ""
}
