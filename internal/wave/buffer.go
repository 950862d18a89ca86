package wave

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cdrip/internal/toc"
)

var (
	// ErrSectorSize is returned when splice data is not exactly one sector.
	ErrSectorSize = errors.New("splice data must be one sector")
	// ErrSectorRange is returned for sector indexes outside the payload.
	ErrSectorRange = errors.New("sector out of range")
)

// AllSectors makes Read return the whole payload.
const AllSectors = -1

// OffsetConfig is the drive read offset correction applied to a Buffer.
type OffsetConfig struct {
	// Frames is the signed read offset in sample frames.
	Frames int
	// PadMissingSamples keeps the file size by writing zeros in place of
	// the samples the offset pushes out.
	PadMissingSamples bool
}

// Buffer holds the audio of one WAV file. Offsets and splices only change
// the in-memory view until Save is called.
type Buffer struct {
	path    string
	layout  layout
	raw     []byte
	offset  int
	pad     bool
	spliced map[int][]byte
}

// Open loads the WAV file at path.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wave file: %w", err)
	}
	l, err := parseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	raw := make([]byte, l.dataSize)
	copy(raw, data[l.dataOffset:l.dataOffset+l.dataSize])
	return &Buffer{path: path, layout: l, raw: raw, spliced: map[int][]byte{}}, nil
}

// Path is the file the buffer was loaded from.
func (b *Buffer) Path() string { return b.path }

// Apply sets the offset and padding from cfg.
func (b *Buffer) Apply(cfg OffsetConfig) {
	b.SetOffset(cfg.Frames)
	b.SetPadMissingSamples(cfg.PadMissingSamples)
}

// SetOffset shifts the view by frames sample frames. Positive values drop
// audio at the start and pad the end with silence, negative values do the
// reverse.
func (b *Buffer) SetOffset(frames int) { b.offset = frames }

// Offset is the current read offset in sample frames.
func (b *Buffer) Offset() int { return b.offset }

// SetPadMissingSamples controls whether Save keeps the padding the offset
// introduces.
func (b *Buffer) SetPadMissingSamples(pad bool) { b.pad = pad }

// PadMissingSamples reports the padding mode.
func (b *Buffer) PadMissingSamples() bool { return b.pad }

// NumSectors counts the whole sectors in the payload.
func (b *Buffer) NumSectors() int {
	return len(b.raw) / toc.BytesPerSector
}

// AudioData is the corrected payload including any offset padding.
func (b *Buffer) AudioData() []byte {
	return b.view()
}

// Read returns one sector of the corrected payload, or all of it for
// AllSectors.
func (b *Buffer) Read(sector int) ([]byte, error) {
	view := b.view()
	if sector == AllSectors {
		return view, nil
	}
	if sector < 0 || sector >= b.NumSectors() {
		return nil, fmt.Errorf("read sector %d of %d: %w", sector, b.NumSectors(), ErrSectorRange)
	}
	start := sector * toc.BytesPerSector
	return view[start : start+toc.BytesPerSector], nil
}

// Splice replaces one sector of the corrected payload. The index is in the
// offset-corrected coordinates and the replacement survives later offset
// changes unchanged.
func (b *Buffer) Splice(sector int, data []byte) error {
	if len(data) != toc.BytesPerSector {
		return fmt.Errorf("splice sector %d with %d bytes: %w", sector, len(data), ErrSectorSize)
	}
	if sector < 0 || sector >= b.NumSectors() {
		return fmt.Errorf("splice sector %d of %d: %w", sector, b.NumSectors(), ErrSectorRange)
	}
	b.spliced[sector] = append([]byte(nil), data...)
	return nil
}

// shiftBytes is the offset in bytes, clamped to the payload length.
func (b *Buffer) shiftBytes() int {
	n := b.offset * toc.BytesPerFrame
	if n < 0 {
		n = -n
	}
	if n > len(b.raw) {
		n = len(b.raw)
	}
	return n
}

func (b *Buffer) view() []byte {
	out := make([]byte, len(b.raw))
	shift := b.shiftBytes()
	switch {
	case b.offset > 0:
		copy(out, b.raw[shift:])
	case b.offset < 0:
		copy(out[shift:], b.raw[:len(b.raw)-shift])
	default:
		copy(out, b.raw)
	}
	for sector, data := range b.spliced {
		copy(out[sector*toc.BytesPerSector:], data)
	}
	return out
}

// payload is what Save writes: the view, minus the padding unless
// PadMissingSamples is set.
func (b *Buffer) payload() []byte {
	view := b.view()
	if b.pad || b.offset == 0 {
		return view
	}
	shift := b.shiftBytes()
	if b.offset > 0 {
		return view[:len(view)-shift]
	}
	return view[shift:]
}

// Save rewrites the file with the corrected payload and updated size
// fields. The file is replaced atomically, so a failed save leaves the
// original untouched.
func (b *Buffer) Save() error {
	payload := b.payload()
	l := b.layout

	out := make([]byte, 0, len(l.prefix)+len(payload)+len(l.trailer))
	out = append(out, l.prefix...)
	out = append(out, payload...)
	out = append(out, l.trailer...)

	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	binary.LittleEndian.PutUint32(out[l.dataSizeField():l.dataOffset], uint32(len(payload)))

	info, err := os.Stat(b.path)
	perm := os.FileMode(0o644)
	if err == nil {
		perm = info.Mode().Perm()
	}
	if err := writeFileAtomic(b.path, out, perm); err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cdrip-*.wav.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
