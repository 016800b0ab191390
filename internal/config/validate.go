package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/gitstrap/internal/errors"
)

// validKeyTypes are the key types ssh-keygen accepts from us.
var validKeyTypes = map[string]bool{
	"ed25519": true,
	"rsa":     true,
	"ecdsa":   true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but gitstrap only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest gitstrap: https://github.com/rileyhilliard/gitstrap/releases")
	}

	if err := validateRemote(cfg.Remote); err != nil {
		return err
	}

	if err := validateKey(cfg.Key); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Branch) == "" {
		return errors.New(errors.ErrConfig,
			"Branch name is empty",
			"Set 'branch' in your .gitstrap.yaml (e.g. main)")
	}
	if strings.ContainsAny(cfg.Branch, " \t\n") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Branch name %q contains whitespace", cfg.Branch),
			"Use a valid git branch name")
	}

	if err := validateProbe(cfg); err != nil {
		return err
	}

	if err := validateOutput(cfg.Output); err != nil {
		return err
	}

	return nil
}

func validateRemote(r RemoteConfig) error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.ErrConfig,
			"Remote name is empty",
			"Set 'remote.name' in your .gitstrap.yaml (e.g. origin)")
	}
	if strings.ContainsAny(r.Name, " \t\n") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Remote name %q contains whitespace", r.Name),
			"Use a simple remote name like 'origin'")
	}
	if strings.TrimSpace(r.URL) == "" {
		return errors.New(errors.ErrConfig,
			"Remote URL is not set",
			"Set 'remote.url' in your .gitstrap.yaml, or pass the URL to 'gitstrap up'")
	}
	// The push happens over SSH with the key this workflow sets up, so the
	// remote must be an SSH URL.
	if DeriveProbeHost(r.URL) == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Remote URL %q is not an SSH URL", r.URL),
			"Use an SSH form like git@github.com:user/repo.git")
	}
	return nil
}

func validateKey(k KeyConfig) error {
	if strings.TrimSpace(k.Path) == "" {
		return errors.New(errors.ErrConfig,
			"Key path is empty",
			"Set 'key.path' in your .gitstrap.yaml (e.g. ~/.ssh/id_ed25519)")
	}
	if k.Type != "" && !validKeyTypes[k.Type] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown key type %q", k.Type),
			"Supported types: ed25519 (recommended), rsa, ecdsa")
	}
	return nil
}

func validateProbe(cfg *Config) error {
	if cfg.ProbeHost() == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine which host to probe for authentication",
			"Set 'probe.host' (e.g. git@github.com), or use an SSH remote URL it can be derived from")
	}
	if strings.TrimSpace(cfg.Probe.Marker) == "" {
		return errors.New(errors.ErrConfig,
			"Probe success marker is empty",
			"Set 'probe.marker' to the text the host prints on successful auth")
	}
	if cfg.Probe.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			"Probe timeout is negative",
			"Use a positive duration like 15s")
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "", "auto", "always", "never":
		return nil
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown color mode %q", o.Color),
			"Use one of: auto, always, never")
	}
}
