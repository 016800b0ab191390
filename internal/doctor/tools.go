package doctor

import (
	"fmt"

	"github.com/rileyhilliard/gitstrap/internal/exec"
)

// BinaryCheck verifies an external tool is on PATH.
type BinaryCheck struct {
	Binary  string
	Install string // suggestion when missing

	// lookPath is injectable for tests; defaults to exec.LookPath.
	lookPath func(string) bool
}

func (c *BinaryCheck) Name() string     { return "binary_" + c.Binary }
func (c *BinaryCheck) Category() string { return "TOOLS" }

func (c *BinaryCheck) Run() CheckResult {
	look := c.lookPath
	if look == nil {
		look = exec.LookPath
	}

	if !look(c.Binary) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s not found on PATH", c.Binary),
			Suggestion: c.Install,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s found", c.Binary),
	}
}

// RequiredBinaryChecks returns checks for every external tool the workflow
// shells out to.
func RequiredBinaryChecks() []Check {
	return []Check{
		&BinaryCheck{Binary: "git", Install: "Install git: https://git-scm.com/downloads"},
		&BinaryCheck{Binary: "ssh", Install: "Install the OpenSSH client package"},
		&BinaryCheck{Binary: "ssh-keygen", Install: "Install the OpenSSH client package"},
		&BinaryCheck{Binary: "ssh-agent", Install: "Install the OpenSSH client package"},
	}
}
