//go:build !linux

package disc

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var errDriveStatusUnsupported = errors.New("drive status requires linux")

func CheckDriveStatus(devicePath string) (DriveStatus, error) {
	if strings.TrimSpace(devicePath) == "" {
		return DriveStatusNoInfo, fmt.Errorf("empty device path")
	}
	return DriveStatusNoInfo, errDriveStatusUnsupported
}

func CheckDeviceAccess(devicePath string) error {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath == "" {
		return fmt.Errorf("empty device path")
	}
	f, err := os.Open(devicePath)
	if err != nil {
		return fmt.Errorf("access %s: %w", devicePath, err)
	}
	return f.Close()
}
