package main

import (
	"context"
	"fmt"
	"github.com/litetable/groupcount/internal/app"
	"github.com/litetable/groupcount/internal/config"
	"github.com/litetable/groupcount/internal/counter"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"io"
	"os"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit. The report goes to stdout and diagnostics to stderr, so a
// failed run leaves stdout empty.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: noColor(stderr)}).
		Level(cfg.LogLevel()).
		With().
		Timestamp().
		Logger()

	application, err := initialize(cfg, stdout)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		return exitError
	}

	if err = application.Run(context.Background()); err != nil {
		log.Error().Err(err).Str("path", cfg.Path).Msg("group count failed")
		return exitError
	}

	return exitOK
}

// noColor disables ANSI colors unless w is a terminal.
func noColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return !ok || !isatty.IsTerminal(f.Fd())
}

func initialize(cfg *config.Config, out io.Writer) (*app.App, error) {
	var jobs []app.Job

	// the counter reads one CSV file and tallies rows by the configured column
	groupCounter, err := counter.New(&counter.Config{
		Opener: counter.FileOpener{},
		Column: cfg.Column,
	})
	if err != nil {
		return nil, err
	}

	// the report is only written once the whole file has been counted
	countJob, err := counter.NewJob(&counter.JobConfig{
		Counter: groupCounter,
		Path:    cfg.Path,
		Out:     out,
	})
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, countJob)

	application, err := app.CreateApp(&app.Config{
		ServiceName: "groupcount",
	}, jobs...)
	if err != nil {
		return nil, err
	}

	return application, nil
}
