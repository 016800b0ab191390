package cli

import (
	stderrs "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/ui"
)

// Global flags
var (
	configFlag  string
	noColorFlag bool
)

// rootCmd is the base command for gitstrap.
var rootCmd = &cobra.Command{
	Use:   "gitstrap",
	Short: "One-time git remote and SSH onboarding",
	Long: `gitstrap wires a local repository up to its SSH remote in one pass.

It replaces the configured git remote, makes sure an SSH keypair exists
(generating one if needed), loads the key into an ssh-agent, waits for you
to upload the public key to the hosting provider, verifies authentication,
and pushes the branch with upstream tracking.

Run 'gitstrap up' inside the repository you want to publish.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to config file (default: .gitstrap.yaml search)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// Config returns the --config flag value.
func Config() string {
	return configFlag
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Structured errors render their own symbol and suggestion.
		var appErr *errors.Error
		if stderrs.As(err, &appErr) {
			fmt.Fprintln(os.Stderr, appErr.Error())
		} else {
			style := lipgloss.NewStyle().Foreground(ui.ColorError)
			fmt.Fprintf(os.Stderr, "%s %v\n", style.Render(ui.SymbolFail), err)
		}
		os.Exit(1)
	}
}
