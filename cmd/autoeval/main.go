package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/zenalexa/autoeval/internal/cli"
	"github.com/zenalexa/autoeval/internal/db"
	"github.com/zenalexa/autoeval/internal/portal"
	"github.com/zenalexa/autoeval/internal/repository"
	"github.com/zenalexa/autoeval/internal/runner"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.autoeval/autoeval.db
	dbPath := os.Getenv("AUTOEVAL_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".autoeval", "autoeval.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer database.Close()
	history := repository.NewSQLiteRunRepo(database)

	portalCfg := portal.LoadConfig()
	var observer portal.Observer = portal.NoopObserver{}
	if os.Getenv("AUTOEVAL_LOG_CALLS") != "" {
		observer = portal.NewLogObserver(os.Stderr)
	}
	client := portal.NewClient(portalCfg, observer)

	runnerCfg := runner.DefaultConfig()
	app := &cli.App{
		Portal:  client,
		History: history,
		NewRunner: func(sink runner.Sink) runner.Service {
			return runner.NewService(client, sink, history, runnerCfg, func() string {
				return uuid.New().String()
			})
		},
		Out: os.Stdout,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
