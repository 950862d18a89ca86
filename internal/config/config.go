package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cdrip/internal/ripping"
	"cdrip/internal/wave"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Drive contains configuration for the optical drive and its read offset.
type Drive struct {
	Device            string `toml:"device"`
	ReadOffset        int    `toml:"read_offset"`
	PadMissingSamples bool   `toml:"pad_missing_samples"`
	ScanTimeout       int    `toml:"scan_timeout"`
	ReadyTimeout      int    `toml:"ready_timeout"`
}

// Rip contains configuration for hidden track handling.
type Rip struct {
	RipHiddenAudio              bool    `toml:"rip_hidden_audio"`
	MinLengthHiddenTrackSeconds float64 `toml:"min_length_hidden_track_seconds"`
}

// History contains configuration for the scan history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cdrip.
//
// Configuration sections by subsystem:
//   - Paths: state directory (history, locks, cdrdao TOC files) and logs
//   - Drive: device path, read offset and scan timeouts
//   - Rip: hidden track preferences
//   - History: scan history database
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Drive   Drive   `toml:"drive"`
	Rip     Rip     `toml:"rip"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cdrip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, lock and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.LockDir(), c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

// LockDir returns the directory holding per-drive lock files.
func (c *Config) LockDir() string {
	if c.Paths.StateDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.StateDir, "locks")
}

// TOCDir returns the directory where cdrdao writes its temporary TOC files.
func (c *Config) TOCDir() string {
	return c.Paths.StateDir
}

// ScanTimeout bounds a single external scanner invocation.
func (c *Config) ScanTimeout() time.Duration {
	return time.Duration(c.Drive.ScanTimeout) * time.Second
}

// ReadyTimeout bounds tray readiness polling in watch mode.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.Drive.ReadyTimeout) * time.Second
}

// RipPreferences projects the [rip] section into ripping preferences.
func (c *Config) RipPreferences() ripping.Preferences {
	return ripping.Preferences{
		RipHiddenAudio:              c.Rip.RipHiddenAudio,
		MinLengthHiddenTrackSeconds: c.Rip.MinLengthHiddenTrackSeconds,
	}
}

// OffsetConfig projects the [drive] read offset settings for wave buffers.
func (c *Config) OffsetConfig() wave.OffsetConfig {
	return wave.OffsetConfig{
		Frames:            c.Drive.ReadOffset,
		PadMissingSamples: c.Drive.PadMissingSamples,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
