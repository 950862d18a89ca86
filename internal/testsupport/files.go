package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cdrip/internal/toc"
	"cdrip/internal/wave"
)

// SectorPattern returns one sector filled with a repeating byte.
func SectorPattern(fill byte) []byte {
	sector := make([]byte, toc.BytesPerSector)
	for i := range sector {
		sector[i] = fill
	}
	return sector
}

// WriteWave writes a CD audio WAV whose sectors are filled with the given
// bytes, one sector per entry.
func WriteWave(t testing.TB, path string, fills ...byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	payload := make([]byte, 0, len(fills)*toc.BytesPerSector)
	for _, fill := range fills {
		payload = append(payload, SectorPattern(fill)...)
	}
	if err := wave.Create(path, payload); err != nil {
		t.Fatalf("create wave %s: %v", path, err)
	}
	return path
}
