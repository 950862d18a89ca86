package disc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrDriveBusy is returned when another cdrip process holds the drive.
var ErrDriveBusy = errors.New("drive busy")

// DriveLock is an exclusive advisory lock on one optical drive.
type DriveLock struct {
	lock   *flock.Flock
	device string
}

// LockDrive takes the lock for device without blocking. Lock files live in
// dir and are named after the device path.
func LockDrive(dir, device string) (*DriveLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := filepath.Join(dir, lockFileName(device))
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire drive lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", device, ErrDriveBusy)
	}
	return &DriveLock{lock: lock, device: device}, nil
}

// Path is the lock file location.
func (l *DriveLock) Path() string {
	return l.lock.Path()
}

// Unlock releases the drive.
func (l *DriveLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release drive lock %s: %w", l.device, err)
	}
	return nil
}

func lockFileName(device string) string {
	name := strings.Trim(filepath.Clean(device), string(filepath.Separator))
	name = strings.NewReplacer(string(filepath.Separator), "-", ":", "-").Replace(name)
	if name == "" || name == "." {
		name = "default"
	}
	return "drive-" + name + ".lock"
}
