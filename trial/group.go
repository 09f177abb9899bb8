package trial

// group.go contains the workload process group: ordered startup and
// total teardown.

import (
	"time"

	"github.com/rs/zerolog"
)

// terminateGrace is how long teardown waits for SIGTERM to stick
// before escalating to SIGKILL.
var terminateGrace = 5 * time.Second

// SpawnFunc launches one process. Tests substitute it to observe
// start order.
type SpawnFunc func(logger zerolog.Logger, spec Spec) (*Handle, error)

// Group owns a set of workload processes that live and die together.
type Group struct {
	logger zerolog.Logger
	procs  []*Handle
}

// StartGroup starts the specs strictly in the given order, each issued
// only after the previous one. Starting is fire-and-forget per member.
// If a member fails to start, the members already running are
// terminated before the error returns; there is never a half-started
// group.
func StartGroup(logger zerolog.Logger, spawn SpawnFunc, specs []Spec) (*Group, error) {
	g := &Group{logger: logger}

	for _, spec := range specs {
		h, err := spawn(logger, spec)
		if err != nil {
			logger.Error().Err(err).Str("name", spec.name()).Msg("Workload process failed to start")
			if terr := g.TerminateAll(); terr != nil {
				logger.Warn().Err(terr).Msg("Cleanup after failed start left processes unsettled")
			}
			return nil, err
		}
		g.procs = append(g.procs, h)
	}

	return g, nil
}

// PIDs returns the member process IDs in start order.
func (g *Group) PIDs() []int {
	pids := make([]int, 0, len(g.procs))
	for _, h := range g.procs {
		pids = append(pids, h.PID())
	}
	return pids
}

// TerminateAll terminates every member, continuing past individual
// failures. Members that ignore SIGTERM within the grace window are
// killed. Safe to call again after a partial failure.
func (g *Group) TerminateAll() error {
	var errs []error

	for _, h := range g.procs {
		if err := h.Terminate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := h.Wait(terminateGrace); err != nil {
			g.logger.Warn().Str("name", h.Name()).Int("pid", h.PID()).Msg("Process ignored SIGTERM, killing")
			if err := h.kill(); err != nil {
				errs = append(errs, err)
				continue
			}
			if _, err := h.Wait(terminateGrace); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return &TeardownError{Errs: errs}
	}
	return nil
}
