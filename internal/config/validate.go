package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateRip(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDrive() error {
	if c.Drive.Device == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("drive.device is required. Set %s or edit %s (create with 'cdrip config init')", deviceEnvVar, defaultPath)
	}
	if c.Drive.ScanTimeout <= 0 {
		return errors.New("drive.scan_timeout must be positive")
	}
	if c.Drive.ReadyTimeout <= 0 {
		return errors.New("drive.ready_timeout must be positive")
	}
	if c.Drive.ReadOffset < -maxReadOffsetFrames || c.Drive.ReadOffset > maxReadOffsetFrames {
		return fmt.Errorf("drive.read_offset must be between %d and %d sample frames", -maxReadOffsetFrames, maxReadOffsetFrames)
	}
	return nil
}

func (c *Config) validateRip() error {
	if c.Rip.MinLengthHiddenTrackSeconds < 0 {
		return errors.New("rip.min_length_hidden_track_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
