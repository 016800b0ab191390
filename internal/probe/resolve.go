package probe

import (
	"strings"

	"github.com/kevinburke/ssh_config"
)

// HostEntry describes how a probe target resolves through ~/.ssh/config.
type HostEntry struct {
	Alias        string // What the workflow probes (possibly user@alias)
	Hostname     string // The HostName value, if configured
	User         string // Effective user (from the alias or SSH config)
	IdentityFile string // The IdentityFile value, if configured
}

// Resolve looks up the probe target in the user's SSH config. A user@host
// target keeps its explicit user; otherwise the config's User applies.
// Lookups never fail: unconfigured aliases resolve to themselves.
func Resolve(target string) HostEntry {
	user, alias, found := strings.Cut(target, "@")
	if !found {
		alias = target
		user = ""
	}

	entry := HostEntry{
		Alias:        alias,
		Hostname:     ssh_config.Get(alias, "HostName"),
		IdentityFile: ssh_config.Get(alias, "IdentityFile"),
		User:         user,
	}

	if entry.User == "" {
		entry.User = ssh_config.Get(alias, "User")
	}
	if entry.Hostname == alias {
		entry.Hostname = ""
	}

	return entry
}

// Description returns a user-friendly summary of the host entry.
func (h HostEntry) Description() string {
	parts := []string{}

	if h.Hostname != "" && h.Hostname != h.Alias {
		parts = append(parts, h.Hostname)
	}

	if h.User != "" {
		parts = append(parts, "user: "+h.User)
	}

	if len(parts) == 0 {
		return h.Alias
	}

	return strings.Join(parts, ", ")
}
