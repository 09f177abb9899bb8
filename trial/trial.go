// Package trial runs one benchmark trial at a time: it starts the
// workload processes, attaches external monitors to them, enforces the
// warmup and measurement windows, and tears everything down. Monitor
// and workload output is opaque to this package.
package trial

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config carries the per-run settings. Run copies it up front, so a
// trial cannot be reconfigured mid-flight.
type Config struct {
	Duration time.Duration         // Measurement window, enforced by the capture monitor's sleep sentinel
	Warmup   time.Duration         // Settle time before measuring begins
	Sampler  func(pids []int) Spec // Optional passive sampler attached for the whole run
}

// Elapsed returns the full window the workload runs under measurement
// conditions: warmup plus measurement. The transfer report divides by
// this, not by the measurement window alone.
func (c Config) Elapsed() time.Duration {
	return c.Warmup + c.Duration
}

// Action is the measurement body, invoked with the workload PIDs once
// warmup has elapsed. Its error is the trial's primary outcome.
type Action func(pids []int) error

// Trial drives one run through its lifecycle. The zero state is Idle,
// and Run may be called once.
type Trial struct {
	logger zerolog.Logger
	cfg    Config

	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)

	spawn SpawnFunc
	state State
}

// New returns a trial in the Idle state.
func New(logger zerolog.Logger, cfg Config) *Trial {
	return &Trial{logger: logger, cfg: cfg, spawn: Spawn, state: StateIdle}
}

// State returns the current lifecycle state.
func (t *Trial) State() State { return t.state }

func (t *Trial) transition(to State) {
	from := t.state
	t.state = to
	t.logger.Debug().Stringer("from", from).Stringer("to", to).Msg("Trial state changed")
	if t.OnTransition != nil {
		t.OnTransition(from, to)
	}
}

// Run starts the workload specs in order, attaches the sampler, sleeps
// through warmup, and invokes action with the workload PIDs. Teardown
// runs exactly once no matter where the run fails: the sampler is
// stopped first, then every workload process is terminated. Teardown
// failures are logged and never mask the returned outcome.
func (t *Trial) Run(specs []Spec, action Action) error {
	if t.state != StateIdle {
		return fmt.Errorf("trial already ran (state %s)", t.state)
	}
	if t.cfg.Duration <= 0 {
		return fmt.Errorf("trial duration must be positive, got %s", t.cfg.Duration)
	}
	if t.cfg.Warmup < 0 {
		return fmt.Errorf("trial warmup must not be negative, got %s", t.cfg.Warmup)
	}

	t.logger.Info().
		Dur("duration", t.cfg.Duration).
		Dur("warmup", t.cfg.Warmup).
		Msg("Starting trial")

	var group *Group
	var sampler *Monitor

	defer func() {
		t.transition(StateTearingDown)
		if sampler != nil {
			if _, err := sampler.StopCollect(); err != nil {
				t.logger.Warn().Err(err).Msg("Sampler did not stop cleanly")
			}
		}
		if group != nil {
			if err := group.TerminateAll(); err != nil {
				t.logger.Warn().Err(err).Msg("Workload teardown failed")
			}
		}
		t.transition(StateComplete)
	}()

	t.transition(StateGroupStarting)

	g, err := StartGroup(t.logger, t.spawn, specs)
	if err != nil {
		return err
	}
	group = g

	if t.cfg.Sampler != nil {
		s, err := AttachSampler(t.logger, t.cfg.Sampler(group.PIDs()))
		if err != nil {
			return err
		}
		sampler = s
	}

	t.transition(StateWarmingUp)
	time.Sleep(t.cfg.Warmup)

	t.transition(StateMeasuring)
	return action(group.PIDs())
}
