package discid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cdrip/internal/toc"
)

// ErrEmptyTOC is returned when a geometry has no tracks to identify.
var ErrEmptyTOC = errors.New("toc has no tracks")

// FreedbID is the classic CDDB identifier of a disc.
type FreedbID struct {
	DiscID string `json:"disc_id"`
	// Query is "<discid> <tracks> <offsets...> <seconds>", the argument list
	// of a cddb query command.
	Query      string `json:"query"`
	Offsets    []int  `json:"offsets"`
	DiscLength int    `json:"disc_length"`
}

// FreedbCalculator computes freedb ids over every TOC entry, data tracks
// included.
type FreedbCalculator struct{}

// Calculate derives the freedb id of g. Offsets include the 150 sector
// lead-in.
func (FreedbCalculator) Calculate(g *toc.Geometry) (FreedbID, error) {
	if g == nil || g.NumTracks() == 0 {
		return FreedbID{}, fmt.Errorf("freedb id: %w", ErrEmptyTOC)
	}
	tracks := g.Tracks()
	offsets := make([]int, len(tracks))
	checksum := 0
	for i, track := range tracks {
		offsets[i] = track.StartSector + toc.LeadInSectors
		checksum += digitSum(offsets[i] / toc.SectorsPerSecond)
	}
	discLength := (g.TotalSectors() + toc.LeadInSectors) / toc.SectorsPerSecond
	playing := discLength - offsets[0]/toc.SectorsPerSecond

	id := uint32(checksum%255)<<24 | uint32(playing)<<8 | uint32(len(tracks))
	discID := fmt.Sprintf("%08x", id)

	parts := make([]string, 0, len(offsets)+3)
	parts = append(parts, discID, strconv.Itoa(len(tracks)))
	for _, offset := range offsets {
		parts = append(parts, strconv.Itoa(offset))
	}
	parts = append(parts, strconv.Itoa(discLength))

	return FreedbID{
		DiscID:     discID,
		Query:      strings.Join(parts, " "),
		Offsets:    offsets,
		DiscLength: discLength,
	}, nil
}

func digitSum(n int) int {
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}
