package doctor

import (
	"fmt"

	"github.com/rileyhilliard/gitstrap/internal/agent"
	"github.com/rileyhilliard/gitstrap/internal/keys"
	"github.com/rileyhilliard/gitstrap/internal/probe"
)

// KeyCheck verifies the configured SSH keypair exists.
type KeyCheck struct {
	Path string
}

func (c *KeyCheck) Name() string     { return "ssh_key" }
func (c *KeyCheck) Category() string { return "SSH" }

func (c *KeyCheck) Run() CheckResult {
	info, err := keys.Inspect(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Cannot resolve key path " + c.Path,
			Suggestion: "Check HOME environment variable",
		}
	}

	if !info.HasPublic {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("No keypair at %s", c.Path),
			Suggestion: "gitstrap up generates one automatically",
		}
	}

	msg := fmt.Sprintf("Keypair found at %s (%s)", info.Path, info.Type)
	if pub, err := keys.ReadPublicKey(info.PublicPath); err == nil {
		if fp, err := keys.Fingerprint(pub); err == nil {
			msg = fmt.Sprintf("Keypair found at %s (%s, %s)", info.Path, info.Type, fp)
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

// AgentCheck verifies a reachable SSH agent.
type AgentCheck struct{}

func (c *AgentCheck) Name() string     { return "ssh_agent" }
func (c *AgentCheck) Category() string { return "SSH" }

func (c *AgentCheck) Run() CheckResult {
	env := agent.CurrentEnv()
	if env.AuthSock == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent not running",
			Suggestion: "gitstrap up starts one automatically",
		}
	}

	if !env.Reachable() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent socket not accessible",
			Suggestion: "Start a fresh agent: eval $(ssh-agent)",
		}
	}

	conn, err := agent.Connect(env)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Cannot query SSH agent",
			Suggestion: "Check the agent with: ssh-add -l",
		}
	}
	defer conn.Close()

	listed, err := conn.List()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Cannot list agent keys",
			Suggestion: "Check the agent with: ssh-add -l",
		}
	}

	if len(listed) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "SSH agent running but no keys loaded",
			Suggestion: "gitstrap up loads the key automatically",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("SSH agent running with %d key%s loaded", len(listed), pluralize(len(listed))),
	}
}

// ProbeHostCheck reports how the probe target resolves through SSH config.
type ProbeHostCheck struct {
	Host string
}

func (c *ProbeHostCheck) Name() string     { return "probe_host" }
func (c *ProbeHostCheck) Category() string { return "SSH" }

func (c *ProbeHostCheck) Run() CheckResult {
	if c.Host == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "No probe host configured or derivable",
			Suggestion: "Set 'probe.host' or use an SSH remote URL",
		}
	}

	entry := probe.Resolve(c.Host)
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Probe target %s (%s)", c.Host, entry.Description()),
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
