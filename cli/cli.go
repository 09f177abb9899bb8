package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ssorj/flimflam/cli/perf"
	"github.com/urfave/cli/v2"
)

const AppName = "flimflam"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
	checks checks
	dir    string
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		checks: defaultChecks(),
		dir:    ".",
		cli: &cli.App{
			Name:  AppName,
			Usage: "Benchmark the queequeg message transfer workload",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "check",
		Usage:  "Check for required programs and system configuration",
		Action: app.check,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "clean",
		Usage:  "Remove build artifacts and output files",
		Action: app.clean,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "build",
		Usage:  "Compile the load generator",
		Action: app.build,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "stat",
		Usage:  "Run the workload and capture 'perf stat' output",
		Action: app.stat,
		Flags: []cli.Flag{
			perf.DurationFlag(),
			perf.WarmupFlag(),
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "flamegraph",
		Usage:  "Run the workload and generate a flamegraph",
		Action: app.flamegraph,
		Flags: []cli.Flag{
			perf.DurationFlag(),
			perf.WarmupFlag(),
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "record",
		Usage:  "Run the workload and capture perf events using 'perf record'",
		Action: app.record,
		Flags: []cli.Flag{
			perf.DurationFlag(),
			perf.WarmupFlag(),
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
