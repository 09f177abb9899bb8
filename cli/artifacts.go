package cli

// artifacts.go contains artifact management for the benchmark outputs.
// The transfer log, perf data, and flamegraph pages live in the working
// directory, and each run keeps the previous copy under a .old name.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	transferLog    = "transfers.csv"
	perfData       = "perf.data"
	flamegraphHTML = "flamegraph.html"

	oldSuffix = ".old"
)

// rotate moves name aside to name.old before a new run overwrites it,
// dropping any older copy. A missing file means there is nothing to
// keep.
func (a *App) rotate(name string) error {
	path := filepath.Join(a.dir, name)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", name, err)
	}

	if err := os.Rename(path, path+oldSuffix); err != nil {
		return fmt.Errorf("rotating %s: %w", name, err)
	}

	a.logger.Debug().Str("from", name).Str("to", name+oldSuffix).Msg("Rotated artifact")
	return nil
}
