package toc

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// SampleRate is the CD audio sample rate in Hz.
	SampleRate = 44100
	// Channels is the number of interleaved audio channels.
	Channels = 2
	// BytesPerSample is the width of one 16-bit little-endian sample.
	BytesPerSample = 2
	// BytesPerFrame is the size of one stereo sample-frame.
	BytesPerFrame = 4
	// FramesPerSector is the number of stereo sample-frames in one sector.
	FramesPerSector = 588
	// BytesPerSector is the size of a raw CD-DA sector.
	BytesPerSector = 2352
	// SectorsPerSecond is the number of sectors played per second.
	SectorsPerSecond = 75
	// LeadInSectors is the two-second lead-in that MSF addresses and disc ids include.
	LeadInSectors = 150
	// WaveHeaderSize is the size of a canonical PCM WAV header.
	WaveHeaderSize = 44
	// LeadoutTrack is the track number TOC dumps use for the lead-out.
	LeadoutTrack = 170
)

// MSFToSectors converts a minutes:seconds:frames triple into a sector count.
func MSFToSectors(minutes, seconds, frames int) int {
	return (minutes*60+seconds)*SectorsPerSecond + frames
}

// ParseMSF parses "mm:ss:ff" or "mm:ss.ff" into a sector count.
func ParseMSF(value string) (int, error) {
	value = strings.TrimSpace(value)
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ':' || r == '.' })
	if len(fields) != 3 {
		return 0, fmt.Errorf("parse msf %q: expected mm:ss:ff", value)
	}
	parts := make([]int, 3)
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse msf %q: invalid component %q", value, field)
		}
		parts[i] = n
	}
	if parts[1] >= 60 || parts[2] >= SectorsPerSecond {
		return 0, fmt.Errorf("parse msf %q: component out of range", value)
	}
	return MSFToSectors(parts[0], parts[1], parts[2]), nil
}

// FormatDuration renders a sector count as mm:ss, truncating partial seconds.
func FormatDuration(sectors int) string {
	if sectors < 0 {
		sectors = 0
	}
	seconds := sectors / SectorsPerSecond
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDurationFrames renders a sector count as mm:ss:ff.
func FormatDurationFrames(sectors int) string {
	if sectors < 0 {
		sectors = 0
	}
	seconds := sectors / SectorsPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", seconds/60, seconds%60, sectors%SectorsPerSecond)
}

// FileSize is the size in bytes of a WAV file holding lengthSector sectors.
func FileSize(lengthSector int) int64 {
	return int64(lengthSector)*BytesPerSector + WaveHeaderSize
}
