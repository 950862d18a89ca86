package disc

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestLockDriveExclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := LockDrive(dir, "/dev/sr0")
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if got := filepath.Base(first.Path()); got != "drive-dev-sr0.lock" {
		t.Fatalf("lock file = %q", got)
	}

	if _, err := LockDrive(dir, "/dev/sr0"); !errors.Is(err, ErrDriveBusy) {
		t.Fatalf("expected ErrDriveBusy, got %v", err)
	}

	other, err := LockDrive(dir, "/dev/sr1")
	if err != nil {
		t.Fatalf("other drive: %v", err)
	}
	defer other.Unlock() //nolint:errcheck

	if err := first.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	again, err := LockDrive(dir, "/dev/sr0")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	if err := again.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
}

func TestEjectorReportsOutput(t *testing.T) {
	ej := NewEjector(failingExec{output: "eject: unable to find or open device"})
	err := ej.Eject(t.Context(), "/dev/sr0")
	if err == nil || !containsAny(err.Error(), []string{"unable to find or open device"}) {
		t.Fatalf("unexpected error %v", err)
	}
}

type failingExec struct {
	output string
}

func (f failingExec) Run(context.Context, string, []string) ([]byte, error) {
	return []byte(f.output), errors.New("exit status 1")
}
