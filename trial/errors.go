package trial

// errors.go contains the error types for process lifecycle failures.

import (
	"errors"
	"fmt"
)

// ErrWaitTimeout reports that a wait deadline elapsed before the
// process exited.
var ErrWaitTimeout = errors.New("timed out waiting for process exit")

// SpawnError reports an OS-level failure to start a process. Spawn
// failures are fatal to the trial that requested them.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TeardownError aggregates termination failures. Teardown continues
// past individual failures, so one error can carry several causes. It
// is reported but never overrides a trial's primary outcome.
type TeardownError struct {
	Errs []error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown left %d processes unsettled: %v", len(e.Errs), errors.Join(e.Errs...))
}

func (e *TeardownError) Unwrap() []error { return e.Errs }
