package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/zenalexa/autoeval/internal/cli/formatter"
	"github.com/zenalexa/autoeval/internal/domain"
)

func autoevalHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// credentialsForm collects the student id and SSO password.
func credentialsForm(username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Student ID").
				Value(username).
				Validate(validateNonEmpty("student id")),
			huh.NewInput().
				Title("SSO Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(validateNonEmpty("password")),
		),
	).WithTheme(autoevalHuhTheme()).WithShowHelp(false)
}

// runSetupForm collects the policy and the override teacher list.
func runSetupForm(policy, overrides *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Evaluation policy").
				Options(
					huh.NewOption("Best score everywhere", string(domain.PolicyMaxScore)),
					huh.NewOption("Random among the top answers", string(domain.PolicyRandomTopN)),
					huh.NewOption("Minimum passing score", string(domain.PolicyMinPassing)),
				).
				Value(policy),
			huh.NewInput().
				Title("Teachers to rate at minimum passing (comma separated, blank for none)").
				Placeholder("张三, 李四").
				Value(overrides),
		),
	).WithTheme(autoevalHuhTheme()).WithShowHelp(false)
}

func validateNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " must not be empty")
		}
		return nil
	}
}

// resolveCredentials fills username/password from flags, environment, or
// an interactive form, in that order.
func resolveCredentials(app *App, username, password *string) error {
	if *username == "" {
		*username = os.Getenv("AUTOEVAL_USERNAME")
	}
	if *password == "" {
		*password = os.Getenv("AUTOEVAL_PASSWORD")
	}
	if *username != "" && *password != "" {
		return nil
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return errors.New("credentials required: pass --username/--password or set AUTOEVAL_USERNAME/AUTOEVAL_PASSWORD")
	}
	return credentialsForm(username, password).Run()
}

// splitOverrides turns the comma separated override field into names.
func splitOverrides(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
