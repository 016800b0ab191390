// Package agent manages the SSH key agent for the onboarding workflow: it
// reuses a running agent when one is reachable, launches ssh-agent when not,
// and registers the private key over the agent protocol so subsequent ssh
// invocations can authenticate with it.
package agent

import (
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
	sshagent "golang.org/x/crypto/ssh/agent"

	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/logger"
)

// Env holds the environment an SSH agent publishes for its clients.
type Env struct {
	AuthSock string // SSH_AUTH_SOCK
	PID      string // SSH_AGENT_PID
}

// CurrentEnv reads the agent environment from the process environment.
func CurrentEnv() Env {
	return Env{
		AuthSock: os.Getenv("SSH_AUTH_SOCK"),
		PID:      os.Getenv("SSH_AGENT_PID"),
	}
}

// Reachable reports whether the agent socket accepts connections.
func (e Env) Reachable() bool {
	if e.AuthSock == "" {
		return false
	}
	conn, err := net.Dial("unix", e.AuthSock)
	if err != nil {
		return false
	}
	conn.Close() //nolint:errcheck // Best-effort close, error not actionable
	return true
}

// Apply exports the agent environment to the current process so the ssh
// invocations this workflow spawns inherit it.
func (e Env) Apply() error {
	if err := os.Setenv("SSH_AUTH_SOCK", e.AuthSock); err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			"Couldn't set SSH_AUTH_SOCK", "")
	}
	if e.PID != "" {
		if err := os.Setenv("SSH_AGENT_PID", e.PID); err != nil {
			return errors.WrapWithCode(err, errors.ErrAgent,
				"Couldn't set SSH_AGENT_PID", "")
		}
	}
	return nil
}

// Conn is a live connection to an SSH agent.
type Conn struct {
	sshagent.ExtendedAgent
	raw net.Conn
}

// Close releases the underlying socket connection. The agent process itself
// keeps running; the workflow does not manage its lifecycle beyond launch.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// Connect opens a client connection to the agent described by env.
func Connect(env Env) (*Conn, error) {
	if env.AuthSock == "" {
		return nil, errors.New(errors.ErrAgent,
			"No SSH agent socket available",
			"Start one with: eval $(ssh-agent)")
	}

	raw, err := net.Dial("unix", env.AuthSock)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAgent,
			"SSH agent socket not accessible",
			"Start a fresh agent with: eval $(ssh-agent)")
	}

	return &Conn{
		ExtendedAgent: sshagent.NewClient(raw),
		raw:           raw,
	}, nil
}

// AddKey reads the private key at keyPath and registers it with the agent.
func AddKey(a sshagent.Agent, keyPath, comment string) error {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			fmt.Sprintf("Couldn't read private key: %s", keyPath),
			"Check that the file exists and is readable")
	}

	priv, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			fmt.Sprintf("Couldn't parse private key: %s", keyPath),
			"The key may be passphrase-protected or corrupt")
	}

	if err := a.Add(sshagent.AddedKey{PrivateKey: priv, Comment: comment}); err != nil {
		return errors.WrapWithCode(err, errors.ErrAgent,
			"SSH agent refused the key",
			"Check the agent with: ssh-add -l")
	}

	logger.NewEnvLogger("[agent]").Debug("registered key %s", keyPath)
	return nil
}

// HasKey reports whether the agent already holds the key whose public half
// is given in authorized_keys format.
func HasKey(a sshagent.Agent, pubKey string) (bool, error) {
	parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(pubKey))
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrAgent,
			"Couldn't parse the public key",
			"The .pub file may be corrupt; regenerate the keypair")
	}
	want := parsed.Marshal()

	listed, err := a.List()
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrAgent,
			"Couldn't list agent keys",
			"Check the agent with: ssh-add -l")
	}

	for _, k := range listed {
		if string(k.Blob) == string(want) {
			return true, nil
		}
	}
	return false, nil
}

// parseAgentOutput extracts the agent environment from `ssh-agent -s` output:
//
//	SSH_AUTH_SOCK=/tmp/ssh-XXXX/agent.123; export SSH_AUTH_SOCK;
//	SSH_AGENT_PID=124; export SSH_AGENT_PID;
func parseAgentOutput(out string) (Env, error) {
	var env Env

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		for _, key := range []string{"SSH_AUTH_SOCK", "SSH_AGENT_PID"} {
			prefix := key + "="
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			value, _, _ := strings.Cut(strings.TrimPrefix(line, prefix), ";")
			if key == "SSH_AUTH_SOCK" {
				env.AuthSock = value
			} else {
				env.PID = value
			}
		}
	}

	if env.AuthSock == "" {
		return Env{}, errors.New(errors.ErrAgent,
			"ssh-agent output did not contain SSH_AUTH_SOCK",
			"Check that ssh-agent works: ssh-agent -s")
	}

	return env, nil
}
