package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zenalexa/autoeval/internal/cli/formatter"
	"github.com/zenalexa/autoeval/internal/portal"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify SSO credentials against the portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := resolveCredentials(app, &username, &password); err != nil {
				return err
			}
			if err := app.Portal.Login(ctx, username, password); err != nil {
				return errors.New(loginMessage(err))
			}
			fmt.Fprintln(app.Out, formatter.StyleGreen.Render("Login successful."))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Student ID")
	cmd.Flags().StringVar(&password, "password", "", "SSO password")

	return cmd
}

// loginMessage maps login failures onto the short messages shown to the
// operator; raw errors stay in logs.
func loginMessage(err error) string {
	switch {
	case errors.Is(err, portal.ErrInvalidCredentials):
		return "bad credentials: check your student id and password"
	case errors.Is(err, portal.ErrProtocolMismatch):
		return "the login page changed; this tool needs an update"
	case errors.Is(err, portal.ErrUnreachable):
		return "network problem: the login service is unreachable"
	default:
		return fmt.Sprintf("login failed: %v", err)
	}
}
