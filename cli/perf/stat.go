package perf

// stat.go contains utilities for building perf stat commands.

import (
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// StatOptions contains options for perf stat command.
type StatOptions struct {
	PIDs     []int         // Process IDs to attach to
	Duration time.Duration // Measurement window (becomes the sleep sentinel)
	Detail   bool          // Add detailed statistics (--detailed flag)
}

// StatArgs builds perf stat command arguments. The trailing sleep
// bounds the measurement: perf exits when its sleep child does.
func StatArgs(opts StatOptions) []string {
	args := []string{"stat"}

	if opts.Detail {
		args = append(args, "--detailed")
	}

	args = append(args, "--pid", PIDList(opts.PIDs))
	args = append(args, "sleep", Seconds(opts.Duration))

	return args
}

// PIDList renders process IDs as the comma-joined list that perf and
// pidstat take.
func PIDList(pids []int) string {
	parts := make([]string, 0, len(pids))
	for _, pid := range pids {
		parts = append(parts, strconv.Itoa(pid))
	}
	return strings.Join(parts, ",")
}

// Seconds formats a duration the way sleep expects it, in seconds
// without a unit suffix (5s -> "5", 2500ms -> "2.5").
func Seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// DurationFlag returns the measurement window flag shared by the
// benchmark commands.
func DurationFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "The time to run (excluding warmup) in seconds",
		Value:   5,
	}
}

// WarmupFlag returns the warmup flag shared by the benchmark commands.
func WarmupFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:    "warmup",
		Aliases: []string{"w"},
		Usage:   "Warmup time in seconds",
		Value:   5,
	}
}
