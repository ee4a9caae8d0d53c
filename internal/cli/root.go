package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/zenalexa/autoeval/internal/portal"
	"github.com/zenalexa/autoeval/internal/repository"
	"github.com/zenalexa/autoeval/internal/runner"
)

// App holds the wiring the CLI commands run against. NewRunner builds a
// pipeline bound to the sink each command chooses, so the engine always
// holds exactly one registered sink per run.
type App struct {
	Portal    *portal.Client
	History   repository.RunRepo
	NewRunner func(sink runner.Sink) runner.Service

	Out io.Writer

	// IsInteractive reports whether forms and the live run view may be used.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "autoeval" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "autoeval",
		Short:         "Automated course evaluation for the campus portal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newLoginCmd(app),
		newTasksCmd(app),
		newRunCmd(app),
		newHistoryCmd(app),
	)

	return root
}
