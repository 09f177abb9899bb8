package trial

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSpawnAndWait(t *testing.T) {
	h, err := Spawn(zerolog.Nop(), Spec{Path: "sh", Args: []string{"-c", "exit 0"}})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	status, err := h.Wait(5 * time.Second)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if status.Code != 0 {
		t.Errorf("Code = %d, want 0", status.Code)
	}
	if status.Signaled {
		t.Error("Signaled = true, want false")
	}
	if h.Running() {
		t.Error("Running = true after exit")
	}
}

func TestSpawnMissingBinary(t *testing.T) {
	_, err := Spawn(zerolog.Nop(), Spec{Name: "ghost", Path: "/nonexistent/flimflam-test-binary"})
	if err == nil {
		t.Fatal("Spawn succeeded for a missing binary")
	}

	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("error is %T, want *SpawnError", err)
	}
	if spawnErr.Name != "ghost" {
		t.Errorf("Name = %q, want ghost", spawnErr.Name)
	}
}

func TestWaitReportsExitCode(t *testing.T) {
	h, err := Spawn(zerolog.Nop(), Spec{Path: "sh", Args: []string{"-c", "exit 3"}})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	status, err := h.Wait(5 * time.Second)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if status.Code != 3 {
		t.Errorf("Code = %d, want 3", status.Code)
	}
}

func TestWaitTimeout(t *testing.T) {
	h, err := Spawn(zerolog.Nop(), Spec{Path: "sleep", Args: []string{"10"}})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	defer func() {
		h.Terminate()
		h.Wait(5 * time.Second)
	}()

	_, err = h.Wait(50 * time.Millisecond)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("Wait error = %v, want ErrWaitTimeout", err)
	}
	if !h.Running() {
		t.Error("Running = false while process should still be alive")
	}
}

func TestTerminateMapsSignalToExitStatus(t *testing.T) {
	h, err := Spawn(zerolog.Nop(), Spec{Path: "sleep", Args: []string{"10"}})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if err := h.Terminate(); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}

	status, err := h.Wait(5 * time.Second)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !status.Signaled {
		t.Error("Signaled = false, want true")
	}
	if status.Code != 143 {
		t.Errorf("Code = %d, want 143 (128+SIGTERM)", status.Code)
	}
}

func TestTerminateIsIdempotent(t *testing.T) {
	h, err := Spawn(zerolog.Nop(), Spec{Path: "sleep", Args: []string{"10"}})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if err := h.Terminate(); err != nil {
		t.Fatalf("first Terminate failed: %v", err)
	}
	if err := h.Terminate(); err != nil {
		t.Errorf("second Terminate failed: %v", err)
	}

	if _, err := h.Wait(5 * time.Second); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	// The process is long gone; Terminate must still succeed.
	if err := h.Terminate(); err != nil {
		t.Errorf("Terminate after exit failed: %v", err)
	}
}

func TestSpawnRedirectsStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	h, err := Spawn(zerolog.Nop(), Spec{
		Path:   "sh",
		Args:   []string{"-c", "echo one; echo two"},
		Stdout: path,
	})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}

	if _, err := h.Wait(5 * time.Second); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading redirect target: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("redirect content = %q, want %q", data, "one\ntwo\n")
	}
}

func TestSpawnTruncatesRedirectTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("stale content from an earlier run\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := Spawn(zerolog.Nop(), Spec{Path: "sh", Args: []string{"-c", "echo fresh"}, Stdout: path})
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if _, err := h.Wait(5 * time.Second); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh\n" {
		t.Errorf("redirect content = %q, want %q", data, "fresh\n")
	}
}

func TestSpecCommandLine(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{
			name: "plain",
			spec: Spec{Path: "perf", Args: []string{"stat", "--pid", "1,2"}},
			want: "perf stat --pid 1,2",
		},
		{
			name: "quotes_spaces",
			spec: Spec{Path: "sh", Args: []string{"-c", "echo hi"}},
			want: "sh -c 'echo hi'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.CommandLine(); got != tt.want {
				t.Errorf("CommandLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpecNameDefaultsToBase(t *testing.T) {
	spec := Spec{Path: "/usr/bin/pidstat"}
	if got := spec.name(); got != "pidstat" {
		t.Errorf("name() = %q, want pidstat", got)
	}

	spec = Spec{Name: "sampler", Path: "/usr/bin/pidstat"}
	if got := spec.name(); got != "sampler" {
		t.Errorf("name() = %q, want sampler", got)
	}
}

func TestExitStatusUnknownError(t *testing.T) {
	status := exitStatus(errors.New("not an exit error"))
	if status.Code != -1 {
		t.Errorf("Code = %d, want -1", status.Code)
	}
}

func TestSpawnErrorMessageNamesProcess(t *testing.T) {
	err := &SpawnError{Name: "receiver", Err: errors.New("no such file")}
	if !strings.Contains(err.Error(), "receiver") {
		t.Errorf("Error() = %q, should name the process", err.Error())
	}
}
