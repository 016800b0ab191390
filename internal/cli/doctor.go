package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/gitstrap/internal/config"
	"github.com/rileyhilliard/gitstrap/internal/doctor"
	"github.com/rileyhilliard/gitstrap/internal/ui"
)

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand() error {
	// Config is optional here; checks still run against the defaults.
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		cfg = config.DefaultConfig()
	}

	checks := collectChecks(cfg)
	results := doctor.RunAll(checks)

	if doctorJSON {
		return outputDoctorJSON(checks, results)
	}

	return outputDoctorText(checks, results)
}

// collectChecks gathers all diagnostic checks for the current environment.
func collectChecks(cfg *config.Config) []doctor.Check {
	checks := doctor.RequiredBinaryChecks()

	checks = append(checks,
		&doctor.KeyCheck{Path: cfg.Key.Path},
		&doctor.AgentCheck{},
	)

	if host := cfg.ProbeHost(); host != "" {
		checks = append(checks, &doctor.ProbeHostCheck{Host: host})
	}

	checks = append(checks, &doctor.RepoCheck{})
	if cfg.Remote.URL != "" {
		checks = append(checks, &doctor.RemoteCheck{
			RemoteName: cfg.Remote.Name,
			WantURL:    cfg.Remote.URL,
		})
	}

	return checks
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(checks []doctor.Check, results []doctor.CheckResult) error {
	// Group by category
	grouped := make(map[string][]doctor.CheckResult)
	categoryOrder := []string{}

	for i, check := range checks {
		cat := check.Category()
		if _, exists := grouped[cat]; !exists {
			categoryOrder = append(categoryOrder, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(categoryOrder)),
	}

	for _, cat := range categoryOrder {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	pass, warn, fail := doctor.Summarize(results)
	output.Summary = SummaryOutput{
		Pass:     pass,
		Warn:     warn,
		Fail:     fail,
		AllClear: warn == 0 && fail == 0,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(checks []doctor.Check, results []doctor.CheckResult) error {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Println()

	// Group checks by category
	categoryOrder := []string{"TOOLS", "SSH", "GIT"}
	grouped := make(map[string][]int) // category -> indices

	for i, check := range checks {
		cat := check.Category()
		grouped[cat] = append(grouped[cat], i)
	}

	for _, category := range categoryOrder {
		indices, ok := grouped[category]
		if !ok || len(indices) == 0 {
			continue
		}

		fmt.Println(headerStyle.Render(category))
		for _, idx := range indices {
			renderCheckResult(results[idx], successStyle, errorStyle, warnStyle, mutedStyle)
		}
		fmt.Println()
	}

	// Render summary divider
	fmt.Println(strings.Repeat("━", 60))
	fmt.Println()

	_, warn, fail := doctor.Summarize(results)
	if warn == 0 && fail == 0 {
		fmt.Printf("%s %s\n", successStyle.Render(ui.SymbolSuccess), "Everything looks good")
	} else {
		total := warn + fail
		fmt.Printf("%s %d issue%s found\n",
			errorStyle.Render(ui.SymbolFail),
			total,
			pluralSuffix(total),
		)
	}

	fmt.Println()
	return nil
}

// statusSymbol maps a check status to its glyph. Warn gets its own symbol
// so the output reads correctly without color.
func statusSymbol(status doctor.CheckStatus) string {
	switch status {
	case doctor.StatusWarn:
		return ui.SymbolWarning
	case doctor.StatusFail:
		return ui.SymbolFail
	default:
		return ui.SymbolComplete
	}
}

// renderCheckResult renders a single check result.
func renderCheckResult(result doctor.CheckResult, successStyle, errorStyle, warnStyle, mutedStyle lipgloss.Style) {
	style := successStyle
	switch result.Status {
	case doctor.StatusWarn:
		style = warnStyle
	case doctor.StatusFail:
		style = errorStyle
	}

	fmt.Printf("  %s %s\n", style.Render(statusSymbol(result.Status)), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Printf("    %s\n", mutedStyle.Render(line))
		}
	}
}

// pluralSuffix returns "s" if n != 1.
func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
