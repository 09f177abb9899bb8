package perf

// record.go contains utilities for building perf record commands.

import "time"

// sampleFrequency is the sample rate in Hz passed to perf record and
// perf script flamegraph.
const sampleFrequency = "997"

// RecordOptions contains options for perf record command.
type RecordOptions struct {
	PIDs     []int         // Process IDs to attach to
	Duration time.Duration // Measurement window (becomes the sleep sentinel)
}

// RecordArgs builds perf record command arguments. perf writes
// perf.data in its working directory and rotates any previous copy to
// perf.data.old itself.
func RecordArgs(opts RecordOptions) []string {
	args := []string{"record", "--freq", sampleFrequency, "--call-graph", "dwarf"}

	args = append(args, "--pid", PIDList(opts.PIDs))
	args = append(args, "sleep", Seconds(opts.Duration))

	return args
}
