package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gitstrap/internal/errors"
)

// Command-specific flags
var (
	upYesFlag    bool
	upQuietFlag  bool
	upBranchFlag string
	initForce    bool
	doctorJSON   bool
)

// upCmd runs the full onboarding sequence.
var upCmd = &cobra.Command{
	Use:   "up [remote-url]",
	Short: "Replace the remote, set up SSH auth, and push",
	Long: `Run the full onboarding sequence against the current repository.

Steps, in order:
  1. Replace the configured git remote with the SSH URL
  2. Ensure the SSH keypair exists (generate if missing)
  3. Launch ssh-agent if needed and load the key
  4. Show the public key and wait for you to upload it
  5. Verify authentication with 'ssh -T'
  6. Push the branch with upstream tracking

The remote URL comes from .gitstrap.yaml or the command line argument.
Every step is fail-fast: the first failure aborts the run.

Examples:
  gitstrap up
  gitstrap up git@github.com:user/repo.git
  gitstrap up --yes    # skip the upload confirmation on re-runs`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := ""
		if len(args) > 0 {
			url = args[0]
		}
		return upCommand(url, upYesFlag, upQuietFlag, upBranchFlag)
	},
}

// initCmd creates a new .gitstrap.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .gitstrap.yaml configuration",
	Long: `Initialize a new gitstrap configuration file.

Creates a .gitstrap.yaml in the current directory, guiding you through
the remote URL, key location, and branch with interactive prompts.

Examples:
  gitstrap init
  gitstrap init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{Overwrite: initForce})
	},
}

// doctorCmd diagnoses environment and configuration issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose environment and config issues",
	Long: `Run diagnostic checks to identify common issues.

Checks:
  - Required binaries (git, ssh, ssh-keygen, ssh-agent)
  - SSH keypair presence
  - ssh-agent reachability and loaded keys
  - Repository and remote state
  - Probe host resolution

Examples:
  gitstrap doctor
  gitstrap doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for gitstrap.

Examples:
  # Bash
  gitstrap completion bash > /etc/bash_completion.d/gitstrap

  # Zsh
  gitstrap completion zsh > "${fpath[1]}/_gitstrap"

  # Fish
  gitstrap completion fish > ~/.config/fish/completions/gitstrap.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// up command flags
	upCmd.Flags().BoolVarP(&upYesFlag, "yes", "y", false, "skip the public key upload confirmation")
	upCmd.Flags().BoolVarP(&upQuietFlag, "quiet", "q", false, "plain output without spinners")
	upCmd.Flags().StringVar(&upBranchFlag, "branch", "", "branch to push (default from config)")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// doctor command flags
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")

	// Register all commands
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
