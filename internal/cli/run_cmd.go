package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/zenalexa/autoeval/internal/cli/formatter"
	"github.com/zenalexa/autoeval/internal/domain"
	"github.com/zenalexa/autoeval/internal/runner"
)

func newRunCmd(app *App) *cobra.Command {
	var username, password, policy, overridesFlag string
	var overrideList []string
	var plain bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every pending course with the chosen policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			interactive := app.IsInteractive != nil && app.IsInteractive()

			if err := resolveCredentials(app, &username, &password); err != nil {
				return err
			}
			if policy == "" && interactive {
				policy = string(domain.PolicyRandomTopN)
				if err := runSetupForm(&policy, &overridesFlag).Run(); err != nil {
					return err
				}
			}
			if policy == "" {
				return errors.New("a policy is required: --policy good|random|worst_passing")
			}
			if !domain.ValidPolicies[policy] {
				return fmt.Errorf("unknown policy %q (want good, random or worst_passing)", policy)
			}
			overrides := append(overrideList, splitOverrides(overridesFlag)...)

			if err := app.Portal.Login(ctx, username, password); err != nil {
				return errors.New(loginMessage(err))
			}
			fmt.Fprintln(app.Out, formatter.StyleGreen.Render("Login successful."))

			req := runner.RunRequest{
				Policy:    domain.Policy(policy),
				Overrides: domain.NewOverrideSet(overrides),
			}
			if interactive && !plain {
				return runWithUI(ctx, app, req)
			}
			return runPlain(ctx, app, req)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Student ID")
	cmd.Flags().StringVar(&password, "password", "", "SSO password")
	cmd.Flags().StringVar(&policy, "policy", "", "Answer policy: good, random or worst_passing")
	cmd.Flags().StringSliceVar(&overrideList, "override", nil, "Teacher always rated at minimum passing (repeatable)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Line-based output instead of the live view")

	return cmd
}

// runPlain executes the run with line-based output, used for pipes and CI.
func runPlain(ctx context.Context, app *App, req runner.RunRequest) error {
	svc := app.NewRunner(runner.NewWriterSink(app.Out))
	if err := svc.Start(ctx, req); err != nil {
		return err
	}
	svc.Wait()
	return nil
}

// runWithUI executes the run behind the live bubbletea view. Engine
// events are buffered on a channel the model drains, so the worker
// never blocks on rendering.
func runWithUI(ctx context.Context, app *App, req runner.RunRequest) error {
	events := make(chan tea.Msg, 1024)
	svc := app.NewRunner(&channelSink{events: events})
	if err := svc.Start(ctx, req); err != nil {
		return err
	}

	model := newRunModel(events, strings.Join(req.Overrides.Names(), ", "))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		svc.Wait()
		return fmt.Errorf("run view: %w", err)
	}
	svc.Wait()
	return nil
}
