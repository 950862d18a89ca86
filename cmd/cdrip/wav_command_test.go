package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"cdrip/internal/testsupport"
	"cdrip/internal/toc"
	"cdrip/internal/wave"
)

func TestWavInfo(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteWave(t, filepath.Join(t.TempDir(), "track01.wav"), 1, 2, 3)

	var info wavInfo
	runJSON(t, env, &info, "wav", "info", path)
	if info.Sectors != 3 || info.AudioBytes != 3*toc.BytesPerSector || info.Offset != 0 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestWavOffsetUsesConfiguredOffset(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithReadOffset(6, false))
	path := testsupport.WriteWave(t, filepath.Join(t.TempDir(), "track01.wav"), 1, 2)

	var info wavInfo
	runJSON(t, env, &info, "wav", "offset", path)
	if info.Offset != 6 {
		t.Fatalf("offset = %d, want 6", info.Offset)
	}
	want := 2*toc.BytesPerSector - 6*toc.BytesPerFrame
	if info.AudioBytes != want {
		t.Fatalf("audio bytes = %d, want %d", info.AudioBytes, want)
	}

	buf, err := wave.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	data := buf.AudioData()
	if data[0] != 1 || data[toc.BytesPerSector-6*toc.BytesPerFrame] != 2 {
		t.Fatalf("audio not shifted by 6 frames")
	}
}

func TestWavOffsetFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithReadOffset(6, false))
	path := testsupport.WriteWave(t, filepath.Join(t.TempDir(), "track01.wav"), 1, 2)

	var info wavInfo
	runJSON(t, env, &info, "wav", "offset", path, "--frames=-3", "--pad")
	if info.Offset != -3 || !info.PadMissingSamples {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.AudioBytes != 2*toc.BytesPerSector {
		t.Fatalf("padded save must keep the length, got %d bytes", info.AudioBytes)
	}

	buf, err := wave.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	data := buf.AudioData()
	if !bytes.Equal(data[:3*toc.BytesPerFrame], make([]byte, 3*toc.BytesPerFrame)) || data[3*toc.BytesPerFrame] != 1 {
		t.Fatalf("expected three frames of leading silence")
	}
}

func TestWavSplice(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	target := testsupport.WriteWave(t, filepath.Join(dir, "rip1.wav"), 1, 2, 3)
	source := testsupport.WriteWave(t, filepath.Join(dir, "rip2.wav"), 7, 8, 9)

	_, stderr, err := runCLI(t, []string{"wav", "splice", target, "--sector", "1", "--from", source}, env.configPath)
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	requireContains(t, stderr, "Replaced sector 1")

	buf, err := wave.Open(target)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for sector, fill := range []byte{1, 8, 3} {
		got, err := buf.Read(sector)
		if err != nil {
			t.Fatalf("read %d: %v", sector, err)
		}
		if !bytes.Equal(got, testsupport.SectorPattern(fill)) {
			t.Fatalf("sector %d does not hold byte %d", sector, fill)
		}
	}
}

func TestWavSpliceRejectsBadSector(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	target := testsupport.WriteWave(t, filepath.Join(dir, "rip1.wav"), 1)
	source := testsupport.WriteWave(t, filepath.Join(dir, "rip2.wav"), 7, 8)

	if _, _, err := runCLI(t, []string{"wav", "splice", target, "--sector", "1", "--from", source}, env.configPath); err == nil {
		t.Fatalf("expected out of range sector to fail")
	}
	if _, _, err := runCLI(t, []string{"wav", "splice", target, "--sector", "0"}, env.configPath); err == nil {
		t.Fatalf("expected missing --from to fail")
	}
}
