package cli

// build.go contains workload compilation. The transfer programs are
// built from C source with frame pointers kept so perf can walk the
// call graphs.

import (
	"fmt"

	"github.com/ssorj/flimflam/trial"
	"github.com/urfave/cli/v2"
)

const (
	workloadSource = "queequeg.c"
	workloadBinary = "./queequeg"
)

var workloadCompileArgs = []string{
	workloadSource, "-o", workloadBinary,
	"-g", "-O2", "-std=c99", "-fno-omit-frame-pointer",
	"-lqpid-proton", "-lqpid-proton-proactor",
}

func (a *App) build(ctx *cli.Context) error {
	return a.buildWorkload()
}

// buildWorkload verifies the environment and compiles the workload.
// The compiler's own output passes through to the console.
func (a *App) buildWorkload() error {
	if err := a.checkEnv(); err != nil {
		return err
	}

	h, err := trial.Spawn(a.logger, trial.Spec{
		Name: "gcc",
		Path: "gcc",
		Args: workloadCompileArgs,
		Dir:  a.dir,
	})
	if err != nil {
		return err
	}

	status, err := h.Wait(0)
	if err != nil {
		return err
	}
	if status.Code != 0 {
		return fmt.Errorf("building %s: gcc exited with code %d", workloadSource, status.Code)
	}

	a.logger.Debug().Str("binary", workloadBinary).Msg("Workload built")
	return nil
}
