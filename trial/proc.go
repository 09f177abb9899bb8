package trial

// proc.go contains the process handle used to spawn, signal, and reap
// the workload and monitor processes.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"
)

// Spec describes a process to launch. Argv is structured; nothing
// passes through a shell.
type Spec struct {
	Name   string   // Short name used in logs and errors (defaults to the executable base name)
	Path   string   // Executable path or name resolved via PATH
	Args   []string // Arguments, excluding the executable itself
	Dir    string   // Working directory for the child (empty means inherit)
	Stdout string   // Optional file created at spawn and handed to the child as stdout
}

// CommandLine renders the spec as a copy-pasteable shell command.
func (s Spec) CommandLine() string {
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, shellescape.Quote(s.Path))

	for _, arg := range s.Args {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}

func (s Spec) name() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.Path)
}

// ExitStatus describes how a process exited. Signal deaths map to
// 128 plus the signal number, following shell convention.
type ExitStatus struct {
	Code     int
	Signaled bool
}

// Handle tracks one spawned process from start to reap. A background
// goroutine waits on the child, so an abandoned handle never leaves a
// zombie behind.
type Handle struct {
	name   string
	cmd    *exec.Cmd
	pid    int
	logger zerolog.Logger

	done    chan struct{} // closed once the child is reaped
	waitErr error         // valid after done is closed
	out     *os.File      // stdout redirect target, closed by the reaper
}

// Spawn starts the process described by spec with the console as its
// stdout and stderr (or spec.Stdout when set). Start is fire-and-forget:
// success means the OS accepted the process, nothing more.
func Spawn(logger zerolog.Logger, spec Spec) (*Handle, error) {
	return spawn(logger, spec, os.Stdout, os.Stderr)
}

func spawn(logger zerolog.Logger, spec Spec, stdout, stderr io.Writer) (*Handle, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	var out *os.File
	if spec.Stdout != "" {
		f, err := os.Create(spec.Stdout)
		if err != nil {
			return nil, &SpawnError{Name: spec.name(), Err: fmt.Errorf("creating stdout file: %w", err)}
		}
		out = f
		cmd.Stdout = f
	}

	logger.Info().Str("command", spec.CommandLine()).Msg("Starting process")

	if err := cmd.Start(); err != nil {
		if out != nil {
			out.Close()
		}
		return nil, &SpawnError{Name: spec.name(), Err: err}
	}

	h := &Handle{
		name:   spec.name(),
		cmd:    cmd,
		pid:    cmd.Process.Pid,
		logger: logger,
		done:   make(chan struct{}),
		out:    out,
	}

	logger.Debug().Str("name", h.name).Int("pid", h.pid).Msg("Process started")

	go h.reap()

	return h, nil
}

func (h *Handle) reap() {
	h.waitErr = h.cmd.Wait()
	if h.out != nil {
		h.out.Close()
	}
	close(h.done)
}

// Name returns the short name the handle logs under.
func (h *Handle) Name() string { return h.name }

// PID returns the OS process ID. It identifies a live process only
// while Running reports true.
func (h *Handle) PID() int { return h.pid }

// Running reports whether the process has not yet been reaped.
func (h *Handle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Terminate sends SIGTERM. It is idempotent and succeeds if the
// process has already exited.
func (h *Handle) Terminate() error {
	err := h.cmd.Process.Signal(syscall.SIGTERM)
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("terminating %s (pid %d): %w", h.name, h.pid, err)
	}
	h.logger.Debug().Str("name", h.name).Int("pid", h.pid).Msg("Sent SIGTERM")
	return nil
}

// kill sends SIGKILL, for processes that ignore Terminate.
func (h *Handle) kill() error {
	err := h.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("killing %s (pid %d): %w", h.name, h.pid, err)
	}
	return nil
}

// Wait blocks until the process exits or timeout elapses. A timeout of
// zero or less blocks until exit. A nonzero exit is not an error here;
// it is reported through the returned status.
func (h *Handle) Wait(timeout time.Duration) (ExitStatus, error) {
	if timeout > 0 {
		select {
		case <-h.done:
		case <-time.After(timeout):
			return ExitStatus{}, fmt.Errorf("%s (pid %d): %w", h.name, h.pid, ErrWaitTimeout)
		}
	} else {
		<-h.done
	}
	return exitStatus(h.waitErr), nil
}

func exitStatus(waitErr error) ExitStatus {
	if waitErr == nil {
		return ExitStatus{Code: 0}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return ExitStatus{Code: 128 + int(status.Signal()), Signaled: true}
		}
		return ExitStatus{Code: exitErr.ExitCode()}
	}

	return ExitStatus{Code: -1}
}
