package trial

// monitor.go contains the scoped monitors attached to the workload: a
// passive sampler that streams while the trial runs, and a bounded
// capture whose own lifetime sets the measurement window.

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Monitor is an external observer process attached to the workload.
// Its output is opaque text; nothing here interprets it.
type Monitor struct {
	name   string
	handle *Handle
	buf    *bytes.Buffer
	logger zerolog.Logger
}

// AttachSampler starts a monitor that samples the workload until
// stopped. Samples stream to the console as they appear and are also
// captured as the artifact StopCollect returns.
func AttachSampler(logger zerolog.Logger, spec Spec) (*Monitor, error) {
	buf := &bytes.Buffer{}

	// One writer for both streams keeps the buffer writes serialized.
	tee := io.MultiWriter(os.Stdout, buf)

	h, err := spawn(logger, spec, tee, tee)
	if err != nil {
		return nil, err
	}

	return &Monitor{name: h.Name(), handle: h, buf: buf, logger: logger}, nil
}

// AttachCapture starts a bounded monitor whose output is captured for
// rendering after the trial. The monitor bounds its own lifetime (its
// argv carries a sleep sentinel), so WaitCollect blocks for the whole
// measurement window. With combined set, stderr is folded into the
// artifact; otherwise stderr passes through to the console.
func AttachCapture(logger zerolog.Logger, spec Spec, combined bool) (*Monitor, error) {
	buf := &bytes.Buffer{}

	stderr := io.Writer(os.Stderr)
	if combined {
		stderr = buf
	}

	h, err := spawn(logger, spec, buf, stderr)
	if err != nil {
		return nil, err
	}

	return &Monitor{name: h.Name(), handle: h, buf: buf, logger: logger}, nil
}

// Running reports whether the monitor process is still alive.
func (m *Monitor) Running() bool {
	return m.handle.Running()
}

// WaitCollect blocks until the monitor exits on its own and returns
// the captured output. A nonzero exit fails the measurement.
func (m *Monitor) WaitCollect() (string, error) {
	status, err := m.handle.Wait(0)
	if err != nil {
		return m.buf.String(), err
	}
	if status.Code != 0 {
		return m.buf.String(), fmt.Errorf("%s exited with code %d", m.name, status.Code)
	}

	m.logger.Debug().Str("name", m.name).Msg("Monitor finished")
	return m.buf.String(), nil
}

// StopCollect terminates the monitor, reaps it, and returns the
// captured output. A signal death is the expected outcome here, not an
// error. No monitor process remains once StopCollect returns. When the
// monitor cannot be reaped the partial capture is discarded: the
// buffer is safe to read only after a successful wait, once the output
// copiers have finished.
func (m *Monitor) StopCollect() (string, error) {
	if err := m.handle.Terminate(); err != nil {
		return "", err
	}

	if _, err := m.handle.Wait(terminateGrace); err != nil {
		m.logger.Warn().Str("name", m.name).Msg("Monitor ignored SIGTERM, killing")
		if err := m.handle.kill(); err != nil {
			return "", err
		}
		if _, err := m.handle.Wait(terminateGrace); err != nil {
			return "", err
		}
	}

	m.logger.Debug().Str("name", m.name).Msg("Monitor stopped")
	return m.buf.String(), nil
}
