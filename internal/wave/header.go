package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"cdrip/internal/toc"
)

// ErrNotWave is returned for files that are not CD audio WAV files.
var ErrNotWave = errors.New("not a cd audio wav file")

// CDFormat is the only PCM layout a Buffer accepts.
var CDFormat = beep.Format{
	SampleRate:  beep.SampleRate(toc.SampleRate),
	NumChannels: toc.Channels,
	Precision:   toc.BytesPerSample,
}

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
)

// layout locates the parts of a WAV file around its data chunk.
type layout struct {
	prefix     []byte // everything up to and including the data chunk header
	dataOffset int    // first payload byte
	dataSize   int
	trailer    []byte // chunks after the payload
}

// dataSizeField is the position of the data chunk's size field.
func (l layout) dataSizeField() int {
	return l.dataOffset - 4
}

// parseLayout validates data as CD audio and walks its chunks.
func parseLayout(data []byte) (layout, error) {
	stream, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return layout{}, fmt.Errorf("%w: %v", ErrNotWave, err)
	}
	_ = stream.Close()
	if format != CDFormat {
		return layout{}, fmt.Errorf("%w: %d Hz, %d channels, %d bytes per sample",
			ErrNotWave, int(format.SampleRate), format.NumChannels, format.Precision)
	}

	pos := riffHeaderSize
	for pos+chunkHeaderSize <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + chunkHeaderSize
		if id == "data" {
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			trailerStart := end + size%2
			if trailerStart > len(data) {
				trailerStart = len(data)
			}
			return layout{
				prefix:     append([]byte(nil), data[:body]...),
				dataOffset: body,
				dataSize:   end - body,
				trailer:    append([]byte(nil), data[trailerStart:]...),
			}, nil
		}
		pos = body + size + size%2
	}
	return layout{}, fmt.Errorf("%w: no data chunk", ErrNotWave)
}

// canonicalHeader renders the 44-byte header for a payload of dataSize bytes.
func canonicalHeader(dataSize int) []byte {
	h := make([]byte, toc.WaveHeaderSize)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(toc.WaveHeaderSize-8+dataSize))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1)
	binary.LittleEndian.PutUint16(h[22:24], toc.Channels)
	binary.LittleEndian.PutUint32(h[24:28], toc.SampleRate)
	binary.LittleEndian.PutUint32(h[28:32], toc.SampleRate*toc.BytesPerFrame)
	binary.LittleEndian.PutUint16(h[32:34], toc.BytesPerFrame)
	binary.LittleEndian.PutUint16(h[34:36], toc.BytesPerSample*8)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))
	return h
}

// Create writes payload to path as a canonical CD audio WAV file.
func Create(path string, payload []byte) error {
	if len(payload)%toc.BytesPerFrame != 0 {
		return fmt.Errorf("create %s: payload of %d bytes is not whole sample frames", path, len(payload))
	}
	out := make([]byte, 0, toc.WaveHeaderSize+len(payload))
	out = append(out, canonicalHeader(len(payload))...)
	out = append(out, payload...)
	return writeFileAtomic(path, out, 0o644)
}
