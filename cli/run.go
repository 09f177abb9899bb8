package cli

// run.go contains the shared benchmark flow behind the stat,
// flamegraph, and record commands: build the workload, rotate the
// transfer log, run one trial with the passive sampler attached, then
// report throughput and the captured monitor output.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ssorj/flimflam/cli/perf"
	"github.com/ssorj/flimflam/report"
	"github.com/ssorj/flimflam/trial"
	"github.com/urfave/cli/v2"
)

const (
	modeStat       = "stat"
	modeFlamegraph = "flamegraph"
	modeRecord     = "record"
)

// samplerInterval is pidstat's reporting period in seconds.
const samplerInterval = "2"

func (a *App) stat(ctx *cli.Context) error       { return a.runBench(ctx, modeStat) }
func (a *App) flamegraph(ctx *cli.Context) error { return a.runBench(ctx, modeFlamegraph) }
func (a *App) record(ctx *cli.Context) error     { return a.runBench(ctx, modeRecord) }

func (a *App) runBench(ctx *cli.Context, mode string) error {
	duration, warmup, err := trialTimes(ctx)
	if err != nil {
		return err
	}

	// Flamegraph rendering needs an extra system package; refuse before
	// anything is spawned rather than fail after a full measurement.
	if mode == modeFlamegraph {
		if err := a.checkFlamegraph(); err != nil {
			return err
		}
	}

	if err := a.buildWorkload(); err != nil {
		return err
	}

	if err := a.rotate(transferLog); err != nil {
		return err
	}

	cfg := trial.Config{
		Duration: duration,
		Warmup:   warmup,
		Sampler:  a.samplerSpec,
	}

	specs := []trial.Spec{
		{
			Name:   "receiver",
			Path:   workloadBinary,
			Args:   []string{"receive"},
			Dir:    a.dir,
			Stdout: filepath.Join(a.dir, transferLog),
		},
		{
			Name: "sender",
			Path: workloadBinary,
			Args: []string{"send"},
			Dir:  a.dir,
		},
	}

	var artifact string

	t := trial.New(a.logger, cfg)
	runErr := t.Run(specs, func(pids []int) error {
		out, err := a.measure(mode, pids, duration)
		artifact = out
		return err
	})

	return a.writeReport(os.Stdout, filepath.Join(a.dir, transferLog), cfg.Elapsed(), artifact, runErr)
}

// writeReport prints the post-trial report to w. The throughput banner
// prints even when the measurement failed: teardown has finished and
// the transfer log is on disk either way. The captured artifact prints
// only on success. A summary failure becomes the command error only
// when the measurement itself succeeded; otherwise it is logged and
// the measurement error stands.
func (a *App) writeReport(w io.Writer, logPath string, elapsed time.Duration, artifact string, runErr error) error {
	if err := report.Summarize(w, logPath, elapsed); err != nil {
		if runErr == nil {
			runErr = err
		} else {
			a.logger.Warn().Err(err).Msg("Transfer summary failed")
		}
	}

	if runErr != nil {
		return runErr
	}

	return report.Render(w, artifact)
}

// measure runs the bounded capture monitor for the given mode against
// the workload PIDs and returns its captured output. It blocks for the
// whole measurement window.
func (a *App) measure(mode string, pids []int, duration time.Duration) (string, error) {
	switch mode {
	case modeStat:
		return a.capture(trial.Spec{
			Name: "perf stat",
			Path: "perf",
			Args: perf.StatArgs(perf.StatOptions{PIDs: pids, Duration: duration, Detail: true}),
			Dir:  a.dir,
		}, true)

	case modeFlamegraph:
		// The previous page is kept; perf writes the new one in place.
		if err := a.rotate(flamegraphHTML); err != nil {
			return "", err
		}
		return a.capture(trial.Spec{
			Name: "perf script flamegraph",
			Path: "perf",
			Args: perf.FlamegraphArgs(perf.FlamegraphOptions{PIDs: pids, Duration: duration}),
			Dir:  a.dir,
		}, false)

	case modeRecord:
		return a.capture(trial.Spec{
			Name: "perf record",
			Path: "perf",
			Args: perf.RecordArgs(perf.RecordOptions{PIDs: pids, Duration: duration}),
			Dir:  a.dir,
		}, true)
	}

	return "", fmt.Errorf("unknown benchmark mode %q", mode)
}

func (a *App) capture(spec trial.Spec, combined bool) (string, error) {
	mon, err := trial.AttachCapture(a.logger, spec, combined)
	if err != nil {
		return "", err
	}
	return mon.WaitCollect()
}

// samplerSpec describes the passive sampler attached for the whole
// trial. Its output streams to the console; nothing parses it.
func (a *App) samplerSpec(pids []int) trial.Spec {
	return trial.Spec{
		Name: "pidstat",
		Path: "pidstat",
		Args: []string{samplerInterval, "--human", "-p", perf.PIDList(pids)},
		Dir:  a.dir,
	}
}

// trialTimes reads and validates the duration and warmup flags.
func trialTimes(ctx *cli.Context) (duration, warmup time.Duration, err error) {
	duration = floatSeconds(ctx.Float64("duration"))
	warmup = floatSeconds(ctx.Float64("warmup"))

	if duration <= 0 {
		return 0, 0, fmt.Errorf("duration must be positive, got %v", ctx.Float64("duration"))
	}
	if warmup < 0 {
		return 0, 0, fmt.Errorf("warmup must not be negative, got %v", ctx.Float64("warmup"))
	}

	return duration, warmup, nil
}

func floatSeconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
