package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// newTestApp returns an App wired for hermetic tests: a silent logger,
// a temp working directory, and environment checks that pass without
// touching PATH or /proc.
func newTestApp(t *testing.T) *App {
	t.Helper()
	return &App{
		logger: zerolog.Nop(),
		dir:    t.TempDir(),
		checks: checks{
			lookPath: func(file string) (string, error) { return "/usr/bin/" + file, nil },
			readFile: func(name string) ([]byte, error) { return []byte("-1\n"), nil },
			stat:     func(name string) (os.FileInfo, error) { return nil, nil },
		},
	}
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewRegistersCommands(t *testing.T) {
	app := New()

	want := []string{"check", "clean", "build", "stat", "flamegraph", "record"}
	if len(app.cli.Commands) != len(want) {
		t.Fatalf("got %d commands, want %d", len(app.cli.Commands), len(want))
	}
	for i, name := range want {
		if app.cli.Commands[i].Name != name {
			t.Errorf("command %d = %q, want %q", i, app.cli.Commands[i].Name, name)
		}
	}
}

func TestBenchCommandsTakeTimingFlags(t *testing.T) {
	app := New()

	for _, cmd := range app.cli.Commands {
		switch cmd.Name {
		case "stat", "flamegraph", "record":
			if len(cmd.Flags) != 2 {
				t.Errorf("%s has %d flags, want 2", cmd.Name, len(cmd.Flags))
				continue
			}
			if got := cmd.Flags[0].Names()[0]; got != "duration" {
				t.Errorf("%s flag 0 = %q, want %q", cmd.Name, got, "duration")
			}
			if got := cmd.Flags[1].Names()[0]; got != "warmup" {
				t.Errorf("%s flag 1 = %q, want %q", cmd.Name, got, "warmup")
			}
		default:
			if len(cmd.Flags) != 0 {
				t.Errorf("%s has %d flags, want 0", cmd.Name, len(cmd.Flags))
			}
		}
	}
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{
			name:    "dev build keeps bare version",
			version: "dev",
			commit:  "none",
			date:    "unknown",
			want:    "dev",
		},
		{
			name:    "empty commit keeps bare version",
			version: "1.0.0",
			commit:  "",
			date:    "2026-08-25",
			want:    "1.0.0",
		},
		{
			name:    "short commit keeps bare version",
			version: "1.0.0",
			commit:  "abc1234",
			date:    "2026-08-25",
			want:    "1.0.0",
		},
		{
			name:    "release formats commit and date",
			version: "1.2.0",
			commit:  "0123456789abcdef",
			date:    "2026-08-25",
			want:    "1.2.0 (commit: 01234567, built: 2026-08-25)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			app.SetVersion(tt.version, tt.commit, tt.date)
			if app.cli.Version != tt.want {
				t.Errorf("Version = %q, want %q", app.cli.Version, tt.want)
			}
		})
	}
}
