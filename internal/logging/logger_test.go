package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cdrip/internal/config"
	"cdrip/internal/services"
)

func TestPrettyHandlerRendersHeaderAndFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("scan complete",
		String(FieldComponent, "cdparanoia"),
		String(FieldDevice, "/dev/sr0"),
		Int("audio_tracks", 10),
		String("note", "two words"),
	)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "INFO [cdparanoia] /dev/sr0 – scan complete") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "    - audio_tracks: 10" {
		t.Fatalf("unexpected field line: %q", lines[1])
	}
	if lines[2] != `    - note: "two words"` {
		t.Fatalf("unexpected quoted field line: %q", lines[2])
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("hidden")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	logger.Warn("visible")
	if !strings.Contains(buf.String(), "WARN – visible") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestPrettyHandlerGroupsAndDedupes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))

	logger.With(String("status", "error")).WithGroup("toc").Info("retry", String("status", "ok"), Int("tracks", 3))

	out := buf.String()
	if !strings.Contains(out, "    - status: error\n") {
		t.Fatalf("expected handler attr, got %q", out)
	}
	if !strings.Contains(out, "    - toc.status: ok\n") || !strings.Contains(out, "    - toc.tracks: 3\n") {
		t.Fatalf("expected grouped attrs, got %q", out)
	}
}

func TestJSONHandlerUsesLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))

	logger.Warn("drive busy", Error(errors.New("locked")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["error"] != "locked" {
		t.Fatalf("expected error attr, got %v", payload["error"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cdrip.log")
	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("probe")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"probe"`) {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestNewFromConfigCreatesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("ready")

	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "cdrip.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWithContextAddsDeviceAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))

	ctx := services.WithDevice(context.Background(), "/dev/sr1")
	ctx = services.WithRequestID(ctx, "abc-123")
	WithContext(ctx, base).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "/dev/sr1 – hello") {
		t.Fatalf("expected device in header, got %q", out)
	}
	if !strings.Contains(out, "    - Session: abc-123") {
		t.Fatalf("expected correlation field, got %q", out)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))

	WarnWithContext(logger, "advanced scan failed", "advanced_scan_failed", String(FieldImpact, "using primary geometry"))

	out := buf.String()
	for _, want := range []string{
		"    - Event: advanced_scan_failed",
		"    - Hint: \"see cdrip.log for the full scanner output\"",
		"    - Impact: \"using primary geometry\"",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled")
	}
	NewComponentLogger(nil, "test").Info("ignored")
}
