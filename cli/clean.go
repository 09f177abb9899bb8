package cli

// clean.go contains the clean command, which removes the benchmark
// outputs and their rotated copies.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

// outputArtifacts lists everything a run can leave behind, in the
// order clean removes them.
var outputArtifacts = []string{
	perfData,
	perfData + oldSuffix,
	flamegraphHTML,
	flamegraphHTML + oldSuffix,
	transferLog,
	transferLog + oldSuffix,
}

func (a *App) clean(ctx *cli.Context) error {
	for _, name := range outputArtifacts {
		err := os.Remove(filepath.Join(a.dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("removing %s: %w", name, err)
		}
		a.logger.Debug().Str("file", name).Msg("Removed artifact")
	}
	return nil
}
