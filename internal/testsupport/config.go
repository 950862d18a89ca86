package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cdrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The drive is a regular file inside the temp directory so access checks and
// lock files work without hardware.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Drive.Device = filepath.Join(base, "cdrom")
	if err := os.WriteFile(cfgVal.Drive.Device, nil, 0o644); err != nil {
		t.Fatalf("create fake drive: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDevice overrides the drive path on the test config.
func WithDevice(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Drive.Device = path
	}
}

// WithReadOffset sets the drive read offset in sample frames.
func WithReadOffset(frames int, pad bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Drive.ReadOffset = frames
		b.cfg.Drive.PadMissingSamples = pad
	}
}

// WithHistoryDisabled turns off the scan history database.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedBinaries writes stub executables and makes their directory the
// only PATH entry, so tools installed on the host stay hidden. Each stub
// prints its entry in outputs and exits 0.
func WithStubbedBinaries(outputs map[string]string) ConfigOption {
	scripts := make(map[string]string, len(outputs))
	for name, output := range outputs {
		scripts[name] = string(stubScript(output))
	}
	return WithStubbedScripts(scripts)
}

// WithStubbedScripts installs complete shell scripts as executables, for
// tools whose stub must do more than print.
func WithStubbedScripts(scripts map[string]string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for name, script := range scripts {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

func stubScript(output string) []byte {
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return []byte(fmt.Sprintf("#!/bin/sh\n/bin/cat <<'CDRIP_STUB_EOF'\n%sCDRIP_STUB_EOF\n", output))
}

// WriteConfigFile encodes cfg as TOML next to its state directory and
// returns the file path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
