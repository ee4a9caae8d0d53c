package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zenalexa/autoeval/internal/cli/formatter"
)

func newTasksCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the current evaluation tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := resolveCredentials(app, &username, &password); err != nil {
				return err
			}
			if err := app.Portal.Login(ctx, username, password); err != nil {
				return errors.New(loginMessage(err))
			}

			tasks, err := app.Portal.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(app.Out, formatter.Dim("No active evaluation tasks."))
				return nil
			}

			fmt.Fprintln(app.Out, formatter.Header("Evaluation tasks"))
			for _, t := range tasks {
				window := ""
				if t.Begins != "" || t.Ends != "" {
					window = formatter.Dim(fmt.Sprintf("  (%s — %s)", t.Begins, t.Ends))
				}
				fmt.Fprintf(app.Out, "%s  %s%s\n", formatter.Dim(t.ID), formatter.Bold(t.Name), window)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Student ID")
	cmd.Flags().StringVar(&password, "password", "", "SSO password")

	return cmd
}
