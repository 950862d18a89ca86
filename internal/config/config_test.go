package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cdrip/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "cdrip", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "cdrip")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.History.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.Drive.Device != "/dev/cdrom" {
		t.Fatalf("unexpected device: %q", cfg.Drive.Device)
	}
	if cfg.ScanTimeout() != 120*time.Second {
		t.Fatalf("unexpected scan timeout: %v", cfg.ScanTimeout())
	}
	if !cfg.Rip.RipHiddenAudio || cfg.Rip.MinLengthHiddenTrackSeconds != 2.0 {
		t.Fatalf("unexpected rip defaults: %+v", cfg.Rip)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.LockDir(), cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cdrip.toml")

	type payload struct {
		Drive struct {
			Device            string `toml:"device"`
			ReadOffset        int    `toml:"read_offset"`
			PadMissingSamples bool   `toml:"pad_missing_samples"`
		} `toml:"drive"`
		Rip struct {
			RipHiddenAudio              bool    `toml:"rip_hidden_audio"`
			MinLengthHiddenTrackSeconds float64 `toml:"min_length_hidden_track_seconds"`
		} `toml:"rip"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Drive.Device = "/dev/sr1"
	custom.Drive.ReadOffset = 667
	custom.Drive.PadMissingSamples = true
	custom.Rip.RipHiddenAudio = false
	custom.Rip.MinLengthHiddenTrackSeconds = 4.5
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Drive.Device != "/dev/sr1" {
		t.Fatalf("expected device from file, got %q", cfg.Drive.Device)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}

	prefs := cfg.RipPreferences()
	if prefs.RipHiddenAudio || prefs.MinLengthHiddenTrackSeconds != 4.5 {
		t.Fatalf("unexpected rip preferences: %+v", prefs)
	}
	offset := cfg.OffsetConfig()
	if offset.Frames != 667 || !offset.PadMissingSamples {
		t.Fatalf("unexpected offset config: %+v", offset)
	}
}

func TestDeviceFallsBackToEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cdrip.toml")
	if err := os.WriteFile(configPath, []byte("[drive]\ndevice = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CDRIP_DEVICE", "/dev/sr7")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Drive.Device != "/dev/sr7" {
		t.Fatalf("expected device from env, got %q", cfg.Drive.Device)
	}
}

func TestFileDeviceWinsOverEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cdrip.toml")
	if err := os.WriteFile(configPath, []byte("[drive]\ndevice = \"/dev/sr2\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CDRIP_DEVICE", "/dev/sr7")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Drive.Device != "/dev/sr2" {
		t.Fatalf("expected device from file, got %q", cfg.Drive.Device)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cdrip.toml")
	if err := os.WriteFile(configPath, []byte("[drive\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Drive.Device != "/dev/cdrom" {
		t.Fatalf("unexpected sample device: %q", cfg.Drive.Device)
	}
	if !strings.Contains(cfg.Paths.StateDir, "cdrip") {
		t.Fatalf("expected state dir to contain cdrip, got %q", cfg.Paths.StateDir)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty device", func(c *config.Config) { c.Drive.Device = "" }},
		{"zero scan timeout", func(c *config.Config) { c.Drive.ScanTimeout = 0 }},
		{"negative ready timeout", func(c *config.Config) { c.Drive.ReadyTimeout = -1 }},
		{"offset too large", func(c *config.Config) { c.Drive.ReadOffset = 5881 }},
		{"offset too small", func(c *config.Config) { c.Drive.ReadOffset = -5881 }},
		{"negative hidden length", func(c *config.Config) { c.Rip.MinLengthHiddenTrackSeconds = -0.5 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := config.Default()
	cfg.Drive.ReadOffset = -5880
	if err := cfg.Validate(); err != nil {
		t.Fatalf("offset at the limit should validate: %v", err)
	}
}
