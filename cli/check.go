package cli

// check.go contains the environment capability checks that gate every
// benchmark run: required programs on PATH and kernel perf access.

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/urfave/cli/v2"
)

// PreconditionError reports an unmet environment requirement. It is
// raised before any process is spawned; Hint names the remediation
// step.
type PreconditionError struct {
	Problem string
	Hint    string
}

func (e *PreconditionError) Error() string {
	return e.Problem + "  " + e.Hint
}

// checks resolves environment lookups. Production code uses
// defaultChecks; tests substitute the fields to run hermetically,
// without touching PATH or /proc.
type checks struct {
	lookPath func(file string) (string, error)
	readFile func(name string) ([]byte, error)
	stat     func(name string) (os.FileInfo, error)
}

func defaultChecks() checks {
	return checks{
		lookPath: exec.LookPath,
		readFile: os.ReadFile,
		stat:     os.Stat,
	}
}

const paranoidPath = "/proc/sys/kernel/perf_event_paranoid"

const d3FlameGraphDir = "/usr/share/d3-flame-graph"

var requiredPrograms = []struct {
	name    string
	problem string
	hint    string
}{
	{"gcc", "I can't find gcc.", "Run 'dnf install gcc'."},
	{"perf", "I can't find the perf tools.", "Run 'dnf install perf'."},
	{"pidstat", "I can't find pidstat.", "Run 'dnf install sysstat'."},
}

// checkEnv verifies the programs and kernel settings every benchmark
// depends on. It spawns nothing.
func (a *App) checkEnv() error {
	for _, prog := range requiredPrograms {
		if _, err := a.checks.lookPath(prog.name); err != nil {
			return &PreconditionError{Problem: prog.problem, Hint: prog.hint}
		}
	}

	data, err := a.checks.readFile(paranoidPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", paranoidPath, err)
	}
	if strings.TrimSpace(string(data)) != "-1" {
		return &PreconditionError{
			Problem: "Perf events are not enabled.",
			Hint:    "Run 'echo -1 > /proc/sys/kernel/perf_event_paranoid' as root.",
		}
	}

	return nil
}

// checkFlamegraph verifies the d3-flame-graph template that perf
// script flamegraph renders with.
func (a *App) checkFlamegraph() error {
	if _, err := a.checks.stat(d3FlameGraphDir); err != nil {
		return &PreconditionError{
			Problem: "I can't find d3-flame-graph.",
			Hint:    "Run 'dnf install js-d3-flame-graph'.",
		}
	}
	return nil
}

func (a *App) check(ctx *cli.Context) error {
	if err := a.checkEnv(); err != nil {
		return err
	}
	a.logger.Info().Msg("All checks passed")
	return nil
}
