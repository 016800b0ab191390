package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/gitstrap/internal/config"
	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	URL            string // Pre-specified remote URL
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// Init creates a new .gitstrap.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		var overwrite bool

		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	remoteURL := opts.URL
	keyType := cfg.Key.Type

	if opts.NonInteractive {
		if remoteURL == "" {
			return errors.New(errors.ErrConfig,
				"Remote URL is required in non-interactive mode",
				"Provide the SSH URL or run interactively")
		}
	} else {
		// Interactive prompts using huh
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Remote URL").
					Description("SSH URL the remote will point at").
					Placeholder("git@github.com:user/repo.git").
					Value(&remoteURL).
					Validate(validateRemoteURL),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Remote name").
					Description("Git remote to replace and push to").
					Placeholder(config.DefaultRemoteName).
					Value(&cfg.Remote.Name),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Branch").
					Description("Branch pushed with upstream tracking").
					Placeholder(config.DefaultBranch).
					Value(&cfg.Branch),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Key path").
					Description("Private key location; generated here if missing").
					Placeholder(config.DefaultKeyPath).
					Value(&cfg.Key.Path),
				huh.NewSelect[string]().
					Title("Key type").
					Options(
						huh.NewOption("ed25519 (recommended)", "ed25519"),
						huh.NewOption("rsa (4096 bit)", "rsa"),
						huh.NewOption("ecdsa", "ecdsa"),
					).
					Value(&keyType),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility")
		}
	}

	cfg.Remote.URL = strings.TrimSpace(remoteURL)
	cfg.Key.Type = keyType
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	// Add a header comment
	header := `# gitstrap configuration
# Run 'gitstrap up' to replace the remote, set up SSH auth, and push
# See: https://github.com/rileyhilliard/gitstrap for documentation

`
	content := header + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  gitstrap up      - Run the onboarding sequence")
	fmt.Println("  gitstrap doctor  - Check the environment")

	return nil
}

// validateRemoteURL rejects empty and non-SSH remote URLs at prompt time.
func validateRemoteURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("remote URL is required")
	}
	if config.DeriveProbeHost(s) == "" {
		return fmt.Errorf("not an SSH URL (expected git@host:path or ssh://)")
	}
	return nil
}
