package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zenalexa/autoeval/internal/cli/formatter"
	"github.com/zenalexa/autoeval/internal/domain"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past evaluation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if app.History == nil {
				return errors.New("run history is not available")
			}
			if runID != "" {
				return printOutcomes(ctx, app, runID)
			}
			return printRuns(ctx, app, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-course outcomes of one run")

	return cmd
}

func printRuns(ctx context.Context, app *App, limit int) error {
	runs, err := app.History.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(app.Out, formatter.Dim("No runs recorded yet."))
		return nil
	}

	fmt.Fprintln(app.Out, formatter.Header("Past runs"))
	for _, run := range runs {
		state := formatter.StyleGreen
		if run.State != domain.RunCompleted {
			state = formatter.StyleRed
		}
		fmt.Fprintf(app.Out, "%s  %s  %s  %s  %s\n",
			formatter.Dim(run.StartedAt.Local().Format(time.DateTime)),
			state.Render(string(run.State)),
			formatter.Bold(run.TaskName),
			formatter.Dim(string(run.Policy)),
			fmt.Sprintf("%d ok / %d skipped / %d failed", run.Succeeded, run.Skipped, run.Failed),
		)
		fmt.Fprintln(app.Out, formatter.Dim("  run "+run.ID))
	}
	return nil
}

func printOutcomes(ctx context.Context, app *App, runID string) error {
	outcomes, err := app.History.ListOutcomes(ctx, runID)
	if err != nil {
		return fmt.Errorf("listing outcomes: %w", err)
	}
	if len(outcomes) == 0 {
		fmt.Fprintln(app.Out, formatter.Dim("No outcomes recorded for this run."))
		return nil
	}

	for _, o := range outcomes {
		mark := ""
		if o.Overridden {
			mark = formatter.Dim(" [min passing]")
		}
		detail := ""
		if o.Detail != "" {
			detail = formatter.Dim("  " + o.Detail)
		}
		fmt.Fprintf(app.Out, "%3d %s %s — %s%s%s\n",
			o.Seq, formatter.StatusIndicator(o.Status), o.Course, o.Teacher, mark, detail)
	}
	return nil
}
