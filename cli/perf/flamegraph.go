package perf

// flamegraph.go contains utilities for building perf script flamegraph
// commands.

import "time"

// FlamegraphOptions contains options for perf script flamegraph command.
type FlamegraphOptions struct {
	PIDs     []int         // Process IDs to attach to
	Duration time.Duration // Measurement window (becomes the sleep sentinel)
}

// FlamegraphArgs builds perf script flamegraph command arguments. perf
// writes flamegraph.html in its working directory, rendered with the
// installed d3-flame-graph template. perf's own diagnostics go to
// stderr, not into the page.
func FlamegraphArgs(opts FlamegraphOptions) []string {
	args := []string{"script", "flamegraph", "--freq", sampleFrequency, "--call-graph", "dwarf"}

	args = append(args, "--pid", PIDList(opts.PIDs))
	args = append(args, "sleep", Seconds(opts.Duration))

	return args
}
